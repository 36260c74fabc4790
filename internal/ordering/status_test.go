package ordering

import "testing"

func TestStatusNext(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		want    Status
	}{
		{name: "pending moves to cooking", current: StatusPending, want: StatusCooking},
		{name: "cooking moves to served", current: StatusCooking, want: StatusServed},
		{name: "served moves to paid", current: StatusServed, want: StatusPaid},
		{name: "paid stays paid", current: StatusPaid, want: StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.current.Next(); got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	if !StatusPaid.Terminal() {
		t.Error("paid should be terminal")
	}
	for _, s := range []Status{StatusPending, StatusCooking, StatusServed} {
		if s.Terminal() {
			t.Errorf("%q should not be terminal", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{raw: "pending", want: StatusPending, ok: true},
		{raw: "cooking", want: StatusCooking, ok: true},
		{raw: "served", want: StatusServed, ok: true},
		{raw: "paid", want: StatusPaid, ok: true},
		{raw: "delivered", ok: false},
		{raw: "", ok: false},
		{raw: "PENDING", ok: false},
	}

	for _, tt := range tests {
		t.Run("parse "+tt.raw, func(t *testing.T) {
			got, ok := ParseStatus(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ParseStatus(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCreateParamsValidate(t *testing.T) {
	valid := func() CreateParams {
		return CreateParams{
			HotelID:  1,
			DeviceID: "device-1",
			Items:    []ItemInput{{MenuItemID: 10, Quantity: 2}},
		}
	}

	tests := []struct {
		name     string
		mutate   func(*CreateParams)
		wantCode ErrorCode
	}{
		{name: "missing hotel", mutate: func(p *CreateParams) { p.HotelID = 0 }, wantCode: CodeValidation},
		{name: "missing device", mutate: func(p *CreateParams) { p.DeviceID = "  " }, wantCode: CodeValidation},
		{name: "no items", mutate: func(p *CreateParams) { p.Items = nil }, wantCode: CodeValidation},
		{name: "zero quantity", mutate: func(p *CreateParams) { p.Items[0].Quantity = 0 }, wantCode: CodeValidation},
		{name: "missing item id", mutate: func(p *CreateParams) { p.Items[0].MenuItemID = 0 }, wantCode: CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid()
			tt.mutate(&params)
			err := params.validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", err.Code, tt.wantCode)
			}
		})
	}

	t.Run("blank table falls back to counter", func(t *testing.T) {
		params := valid()
		params.TableNumber = "  "
		if err := params.validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if params.TableNumber != DefaultTable {
			t.Errorf("table = %q, want %q", params.TableNumber, DefaultTable)
		}
	})
}
