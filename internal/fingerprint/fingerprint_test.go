package fingerprint

import "testing"

func TestSHA1Hex(t *testing.T) {
	cases := map[string]string{
		"":           "DA39A3EE5E6B4B0D3255BFEF95601890AFD80709",
		"password":   "5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8",
		"Password1!": "32CA9FC1A0F5B6330E3F4C8C1BBECDE9BEDB9573",
		"hunter2":    "F3BBBD66A63D4BF1747940578EC3D0103530E21D",
	}
	for in, want := range cases {
		if got := SHA1Hex(in); got != want {
			t.Errorf("SHA1Hex(%q) = %s; want %s", in, got, want)
		}
	}
}

func TestSHA256Hex(t *testing.T) {
	cases := map[string]string{
		"":         "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		"password": "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
	}
	for in, want := range cases {
		if got := SHA256Hex(in); got != want {
			t.Errorf("SHA256Hex(%q) = %s; want %s", in, got, want)
		}
	}
}

func TestSplit(t *testing.T) {
	prefix, suffix := Split("5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8")
	if prefix != "5BAA6" {
		t.Errorf("prefix = %s; want 5BAA6", prefix)
	}
	if suffix != "1E4C9B93F3F0682250B6CF8331B7EE68FD8" {
		t.Errorf("suffix = %s; want 1E4C9B93F3F0682250B6CF8331B7EE68FD8", suffix)
	}
	if len(prefix)+len(suffix) != 40 {
		t.Fatalf("prefix+suffix length = %d; want 40", len(prefix)+len(suffix))
	}
}
