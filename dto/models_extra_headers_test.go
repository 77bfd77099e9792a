package dto

import "testing"

func TestExtraHeaders_Set_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		in         []string
		want       map[string]string
		wantString string
	}{
		{
			name:       "single header",
			in:         []string{"X-Bank-Id=1"},
			want:       map[string]string{"X-Bank-Id": "1"},
			wantString: "X-Bank-Id=1",
		},
		{
			name:       "keys are canonicalised and values trimmed",
			in:         []string{" x-channel = mobile ,accept-language=en"},
			want:       map[string]string{"X-Channel": "mobile", "Accept-Language": "en"},
			wantString: "Accept-Language=en,X-Channel=mobile",
		},
		{
			name:       "repeated flags merge and later values win",
			in:         []string{"A=1,B=2", "B=3"},
			want:       map[string]string{"A": "1", "B": "3"},
			wantString: "A=1,B=3",
		},
		{
			name:       "value may contain equals",
			in:         []string{"X-Sig=a=b"},
			want:       map[string]string{"X-Sig": "a=b"},
			wantString: "X-Sig=a=b",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			eh := make(ExtraHeaders)
			for _, in := range tt.in {
				if err := eh.Set(in); err != nil {
					t.Fatalf("Set(%q) err: %v", in, err)
				}
			}
			if len(eh) != len(tt.want) {
				t.Fatalf("got=%v want %v", eh, tt.want)
			}
			for k, v := range tt.want {
				if eh[k] != v {
					t.Fatalf("eh[%q]=%q want %q", k, eh[k], v)
				}
			}
			if got := eh.String(); got != tt.wantString {
				t.Fatalf("String()=%q want %q", got, tt.wantString)
			}
		})
	}
}

func TestExtraHeaders_Set_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"broken", "=value", "A=1,broken"} {
		eh := make(ExtraHeaders)
		if err := eh.Set(in); err == nil {
			t.Fatalf("Set(%q) err=nil want error", in)
		}
	}

	eh := make(ExtraHeaders)
	if err := eh.Set(" , , "); err != nil || len(eh) != 0 {
		t.Fatalf("Set of blanks: eh=%v err=%v", eh, err)
	}
}
