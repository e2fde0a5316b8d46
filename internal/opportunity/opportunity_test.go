package opportunity

import "testing"

func validSteps() [3]Step {
	return [3]Step{
		{Symbol: "KCS-USDT", Side: Buy},
		{Symbol: "KCS-BTC", Side: Sell},
		{Symbol: "BTC-USDT", Side: Sell},
	}
}

func TestValidate_OK(t *testing.T) {
	o := New("kucoin", [3]string{"USDT", "KCS", "BTC"}, validSteps(), 20.0)
	if err := o.Validate(); err != nil {
		t.Fatalf("expected valid opportunity, got %v", err)
	}
}

func TestValidate_EmptyCurrency(t *testing.T) {
	o := New("kucoin", [3]string{"USDT", "", "BTC"}, validSteps(), 20.0)
	if err := o.Validate(); err == nil {
		t.Fatal("expected error for empty currency")
	}
}

func TestValidate_DuplicateCurrency(t *testing.T) {
	o := New("kucoin", [3]string{"USDT", "USDT", "BTC"}, validSteps(), 20.0)
	if err := o.Validate(); err == nil {
		t.Fatal("expected error for non-distinct currencies")
	}
}

func TestValidate_BadSide(t *testing.T) {
	steps := validSteps()
	steps[1].Side = "hold"
	o := New("kucoin", [3]string{"USDT", "KCS", "BTC"}, steps, 20.0)
	if err := o.Validate(); err == nil {
		t.Fatal("expected error for invalid side")
	}
}

func TestValidate_NotAClosedCycle(t *testing.T) {
	steps := validSteps()
	steps[1] = Step{Symbol: "ETH-BTC", Side: Sell} // does not connect KCS->BTC
	o := New("kucoin", [3]string{"USDT", "KCS", "BTC"}, steps, 20.0)
	if err := o.Validate(); err == nil {
		t.Fatal("expected error for a cycle whose steps do not close")
	}
}

func TestValidate_MalformedSymbol(t *testing.T) {
	steps := validSteps()
	steps[0] = Step{Symbol: "KCSUSDT", Side: Buy} // missing the "-" separator
	o := New("kucoin", [3]string{"USDT", "KCS", "BTC"}, steps, 20.0)
	if err := o.Validate(); err == nil {
		t.Fatal("expected error for a symbol not in BASE-QUOTE form")
	}
}

func TestValidate_NonPositiveFunding(t *testing.T) {
	o := New("kucoin", [3]string{"USDT", "KCS", "BTC"}, validSteps(), 0)
	if err := o.Validate(); err == nil {
		t.Fatal("expected error for non-positive funding")
	}
}

func TestString(t *testing.T) {
	o := New("kucoin", [3]string{"USDT", "KCS", "BTC"}, validSteps(), 20.0)
	s := o.String()
	if len(s) == 0 {
		t.Fatal("expected non-empty string")
	}
}
