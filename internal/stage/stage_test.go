package stage

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		name      string
		completed [Count]bool
		want      int
	}{
		{"new customer", [Count]bool{false, false, false, false}, 1},
		{"first call done", [Count]bool{true, false, false, false}, 2},
		{"two calls done", [Count]bool{true, true, false, false}, 3},
		{"three calls done", [Count]bool{true, true, true, false}, 4},
		{"all done stays at four", [Count]bool{true, true, true, true}, 4},
		{"gap resolves to first missing", [Count]bool{true, false, true, false}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.completed); got != tc.want {
				t.Errorf("Resolve(%v) = %d, want %d", tc.completed, got, tc.want)
			}
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	flags := [Count]bool{true, true, false, false}
	first := Resolve(flags)
	second := Resolve(flags)
	if first != second {
		t.Errorf("resolver not idempotent: %d then %d", first, second)
	}
}

func TestAllComplete(t *testing.T) {
	if AllComplete([Count]bool{true, true, true, false}) {
		t.Error("expected incomplete journey")
	}
	if !AllComplete([Count]bool{true, true, true, true}) {
		t.Error("expected complete journey")
	}
}
