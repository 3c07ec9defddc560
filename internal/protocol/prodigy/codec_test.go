package prodigy

import "testing"

func TestFormatRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   uint16
		cmd  string
		args []Arg
		want string
	}{
		{
			name: "no args",
			id:   1,
			cmd:  "Connect",
			want: "?0001 Connect",
		},
		{
			name: "mixed args",
			id:   0xABCD,
			cmd:  "DefineSpectrumFAT",
			args: []Arg{
				Num("StartEnergy", 10.5),
				Int("NumberOfScans", 3),
				Enum("LensMode", "WideAngleMode"),
				Flag("Dummy", true),
			},
			want: `?ABCD DefineSpectrumFAT StartEnergy:10.5 NumberOfScans:3 LensMode:WideAngleMode Dummy:true`,
		},
		{
			name: "quoted string",
			id:   2,
			cmd:  "SetAnalyzerParameterValue",
			args: []Arg{Str("Name", `pass "energy"`)},
			want: `?0002 SetAnalyzerParameterValue Name:"pass \"energy\""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FormatRequest(tt.id, tt.cmd, tt.args...)
			if got != tt.want {
				t.Errorf("FormatRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseReply_OK(t *testing.T) {
	t.Parallel()

	reply, err := ParseReply(`!0001 OK: Samples:21 ValuesPerSample:1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reply.OK || reply.ID != 1 {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	samples, err := reply.Int64("Samples")
	if err != nil || samples != 21 {
		t.Errorf("Samples = %d, %v, want 21, nil", samples, err)
	}
}

func TestParseReply_OKNoValues(t *testing.T) {
	t.Parallel()

	reply, err := ParseReply(`!0042 OK`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reply.OK || len(reply.Values) != 0 {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestParseReply_Error(t *testing.T) {
	t.Parallel()

	reply, err := ParseReply(`!0003 Error: 205 "Spectrum not defined"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.OK {
		t.Fatal("expected OK=false")
	}
	if reply.Code != 205 || reply.Message != "Spectrum not defined" {
		t.Errorf("unexpected error body: code=%d msg=%q", reply.Code, reply.Message)
	}
}

func TestParseReply_DataArray(t *testing.T) {
	t.Parallel()

	reply, err := ParseReply(`!0010 OK: Data:[1.0,2.5,-3.25]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vals, err := reply.FloatArray("Data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1.0, 2.5, -3.25}
	if len(vals) != len(want) {
		t.Fatalf("got %v, want %v", vals, want)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("vals[%d] = %v, want %v", i, vals[i], want[i])
		}
	}
}

func TestParseReply_Malformed(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"garbage",
		"!XYZ1 OK",
		"!0001 Maybe",
	}
	for _, c := range cases {
		if _, err := ParseReply(c); err == nil {
			t.Errorf("ParseReply(%q) expected error, got nil", c)
		}
	}
}

func TestRoundTrip_RequestReplyID(t *testing.T) {
	t.Parallel()

	line := FormatRequest(0x1234, "GetAnalyzerParameterValue", Str("Name", "PassEnergy"))
	if line[0] != '?' || line[1:5] != "1234" {
		t.Fatalf("unexpected request line: %q", line)
	}

	reply, err := ParseReply(`!1234 OK: Value:35.0`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.ID != 0x1234 {
		t.Errorf("reply.ID = %X, want 1234", reply.ID)
	}
}
