package exam

import "testing"

func allStates() []State {
	states := []State{Home()}
	for _, k := range Kinds {
		states = append(states, ExamChosen(k), Random(k))
		for _, y := range []int{1, 2013, 2020, 2025, 123456789} {
			states = append(states, YearChosen(k, y), RandomInYear(k, y))
		}
	}
	return states
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, s := range allStates() {
		token := Encode(s)
		if token == "" {
			t.Fatalf("empty token for %+v", s)
		}
		got := Decode(token)
		if got != s {
			t.Fatalf("Decode(%q) = %+v, want %+v", token, got, s)
		}
	}
}

func TestEncodeGrammar(t *testing.T) {
	cases := []struct {
		state State
		want  string
	}{
		{Home(), "menu_home"},
		{ExamChosen(Main), "exam_main"},
		{ExamChosen(Advanced), "exam_adv"},
		{YearChosen(Main, 2013), "year_exam_main_2013"},
		{YearChosen(Advanced, 2020), "year_exam_adv_2020"},
		{Random(Main), "rand_exam_main"},
		{RandomInYear(Advanced, 2019), "randyr_exam_adv_2019"},
		{State{}, ""},
	}
	for _, tc := range cases {
		if got := Encode(tc.state); got != tc.want {
			t.Fatalf("Encode(%+v) = %q, want %q", tc.state, got, tc.want)
		}
	}
}

func TestDecodeKnownTokens(t *testing.T) {
	cases := []struct {
		token string
		want  State
	}{
		{"year_exam_adv_2020", State{Form: FormYear, Kind: Advanced, Year: 2020}},
		{"rand_exam_main", State{Form: FormRandom, Kind: Main}},
		{"randyr_exam_main_2013", State{Form: FormRandomInYear, Kind: Main, Year: 2013}},
		{"exam_adv", State{Form: FormExam, Kind: Advanced}},
		{"menu_home", State{Form: FormHome}},
	}
	for _, tc := range cases {
		if got := Decode(tc.token); got != tc.want {
			t.Fatalf("Decode(%q) = %+v, want %+v", tc.token, got, tc.want)
		}
	}
}

func TestDecodeRejectsUnknown(t *testing.T) {
	tokens := []string{
		"",
		"bogus_token",
		"_",
		"___",
		"exam",
		"exam_",
		"exam_main_",
		"exam_other",
		"menu",
		"menu_home_",
		"rand_",
		"rand_exam",
		"rand_exam_main_2013",
		"rand_exam_mid",
		"randyr_exam_main",
		"randyr_exam_main_",
		"randyr_exam_main_20x3",
		"year_exam_main",
		"year_exam_main_-1",
		"year_exam_main_+2013",
		"year_exam_main_02013",
		"year_exam_main_2013_1",
		"year_exam_adv_99999999999999999999",
		"year_main_2013",
		"\fexam_main",
		"EXAM_MAIN",
	}
	for _, token := range tokens {
		got := Decode(token)
		if got.Recognized() {
			t.Fatalf("Decode(%q) = %+v, want unrecognized", token, got)
		}
		if got != (State{}) {
			t.Fatalf("Decode(%q) returned non-zero unrecognized state %+v", token, got)
		}
	}
}

func TestFormString(t *testing.T) {
	if FormRandomInYear.String() != "randyr" {
		t.Fatalf("unexpected form name %q", FormRandomInYear.String())
	}
	if Form(42).String() != "unrecognized" {
		t.Fatalf("unknown form should render as unrecognized")
	}
}

func FuzzDecode(f *testing.F) {
	for _, s := range allStates() {
		f.Add(Encode(s))
	}
	for _, s := range []string{"", "menu_home_", "year_exam_main_", "randyr_exam_adv_-1", "exam_jee", "\fyear|1"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, token string) {
		st := Decode(token)
		if !st.Recognized() {
			return
		}
		if got := Encode(st); got != token {
			t.Fatalf("Encode(Decode(%q)) = %q", token, got)
		}
	})
}
