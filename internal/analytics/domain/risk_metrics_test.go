package domain

import "testing"

func TestPREIScore(t *testing.T) {
	dte := 30
	pos := Position{
		Greeks: Greeks{Gamma: Float(0.05), Vega: Float(20)},
		DTE:    &dte,
	}

	score, ok := PREI(pos)
	if !ok {
		t.Fatal("PREI should be defined")
	}
	// (0.4*0.05/1.05 + 0.3*20/120 + 0.3*sqrt(1/30)) * 100
	if !almostEqual(score, 12.381991, 1e-5) {
		t.Errorf("PREI = %v, want ~12.382", score)
	}
	if score < 0 || score > 100 {
		t.Errorf("PREI = %v, want in [0, 100]", score)
	}
}

func TestPREIUndefinedOnMissingInputs(t *testing.T) {
	dte := 30
	cases := []Position{
		{Greeks: Greeks{Vega: Float(20)}, DTE: &dte},   // 缺 gamma
		{Greeks: Greeks{Gamma: Float(0.05)}, DTE: &dte}, // 缺 vega
		{Greeks: Greeks{Gamma: Float(0.05), Vega: Float(20)}}, // 缺 dte
	}
	for i, pos := range cases {
		if _, ok := PREI(pos); ok {
			t.Errorf("case %d: PREI should be undefined", i)
		}
	}
}

func TestPREIDTEFloor(t *testing.T) {
	zero, one := 0, 1
	withZero := Position{Greeks: Greeks{Gamma: Float(0.05), Vega: Float(20)}, DTE: &zero}
	withOne := Position{Greeks: Greeks{Gamma: Float(0.05), Vega: Float(20)}, DTE: &one}

	a, _ := PREI(withZero)
	b, _ := PREI(withOne)
	if a != b {
		t.Errorf("dte below 1 should clamp to 1: %v vs %v", a, b)
	}
}

func TestTGR(t *testing.T) {
	tgr, ok := TGR(-0.5, 0.02)
	if !ok || !almostEqual(tgr, 25, 1e-12) {
		t.Errorf("TGR = %v (%v), want 25", tgr, ok)
	}

	if _, ok := TGR(-0.5, 0); ok {
		t.Error("TGR should be undefined for zero gamma")
	}

	pos := Position{Greeks: Greeks{Theta: Float(-0.5)}}
	if _, ok := PositionTGR(pos); ok {
		t.Error("PositionTGR should be undefined without gamma")
	}
}

func TestSASScore(t *testing.T) {
	sas, ok := SAS(0.30, 0.20, 1.5, 0.8)
	if !ok {
		t.Fatal("SAS should be defined")
	}
	// 0.35*(1.5/2*100) + 0.35*(1.5/3*100) + 0.30*80 = 67.75
	if !almostEqual(sas, 67.75, 1e-9) {
		t.Errorf("SAS = %v, want 67.75", sas)
	}
}

func TestSASCaps(t *testing.T) {
	// IV/HV 比值在 2.0 倍封顶, Sharpe 在 3.0 封顶
	capped, _ := SAS(1.0, 0.2, 10, 1.0)
	want := 0.35*100 + 0.35*100 + 0.30*100
	if !almostEqual(capped, want, 1e-9) {
		t.Errorf("capped SAS = %v, want %v", capped, want)
	}

	// 负 Sharpe 贡献为零
	negative, _ := SAS(0.2, 0.2, -2, 0.5)
	want = 0.35*(0.5*100) + 0 + 0.30*50
	if !almostEqual(negative, want, 1e-9) {
		t.Errorf("negative-sharpe SAS = %v, want %v", negative, want)
	}
}

func TestSASUndefined(t *testing.T) {
	if _, ok := SAS(0.3, 0, 1.0, 0.8); ok {
		t.Error("SAS should be undefined for non-positive HV")
	}
	if _, ok := SAS(0.3, 0.2, 1.0, 1.5); ok {
		t.Error("SAS should be undefined for win probability outside [0,1]")
	}
	if _, ok := SAS(0.3, 0.2, 1.0, -0.1); ok {
		t.Error("SAS should be undefined for negative win probability")
	}
}
