package models

import "testing"

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name    string
		ltp     float64
		trigger float64
		want    float64
	}{
		{"above trigger", 12, 10, 120},
		{"below trigger", 5, 10, 50},
		{"zero trigger", 12, 0, 0},
		{"zero ltp", 0, 10, 0},
		{"negative trigger", 12, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChangePercent(tt.ltp, tt.trigger); got != tt.want {
				t.Errorf("ChangePercent(%v, %v) = %v, want %v", tt.ltp, tt.trigger, got, tt.want)
			}
		})
	}
}

func TestValidSource(t *testing.T) {
	for _, s := range Sources {
		if !ValidSource(s) {
			t.Errorf("ValidSource(%s) = false", s)
		}
	}
	if ValidSource("Daily") {
		t.Error("ValidSource(Daily) = true, want false")
	}
}

func TestSettlementRowClassification(t *testing.T) {
	fut := SettlementRow{InstrumentClass: ClassIndexFuture}
	if !fut.IsFuture() || fut.IsOption() {
		t.Error("IDF row must classify as future, not option")
	}

	opt := SettlementRow{InstrumentClass: ClassStockOption, OptionType: OptionPut}
	if opt.IsFuture() || !opt.IsOption() {
		t.Error("STO/PE row must classify as option, not future")
	}
}
