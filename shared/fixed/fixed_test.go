package fixed

import "testing"

func TestFromFloatRoundTrip(t *testing.T) {
	tests := []float64{0, 1, -1, 0.5, -0.25, 12.75, -900, 1234.0625}
	for _, f := range tests {
		if got := FromFloat(f).Float(); got != f {
			t.Errorf("FromFloat(%v).Float() = %v, expected %v", f, got, f)
		}
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Num
		want float64
	}{
		{"add", FromFloat(1.5).Add(FromFloat(2.25)), 3.75},
		{"sub", FromFloat(1.5).Sub(FromFloat(2.25)), -0.75},
		{"mul", FromFloat(1.5).Mul(FromFloat(-2)), -3},
		{"mul fractions", FromFloat(0.5).Mul(FromFloat(0.5)), 0.25},
		{"mul negatives", FromFloat(-3).Mul(FromFloat(-4)), 12},
		{"abs", FromFloat(-7.5).Abs(), 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Float() != tt.want {
				t.Errorf("got %v, expected %v", tt.got, tt.want)
			}
		})
	}
}

func TestInt(t *testing.T) {
	if got := FromFloat(2.75).Int(); got != 2 {
		t.Errorf("Int() = %d, expected 2", got)
	}
	if got := FromInt(-3).Int(); got != -3 {
		t.Errorf("Int() = %d, expected -3", got)
	}
}
