package scoring

import "testing"

func TestTiebreakServer(t *testing.T) {
	// starter serves point 1, then every two points the service changes
	want := []Side{Side1, Side2, Side2, Side1, Side1, Side2, Side2, Side1, Side1}
	for played, w := range want {
		if got := TiebreakServer(Side1, played); got != w {
			t.Fatalf("after %d points server = %v, want %v", played, got, w)
		}
	}
}

func TestNextSetFirstServer(t *testing.T) {
	cases := []struct {
		games int
		want  Side
	}{
		{10, Side1}, // 6-4
		{8, Side1},  // 6-2
		{13, Side2}, // 7-6
		{11, Side2},
		{12, Side1}, // 7-5
	}
	for _, tc := range cases {
		if got := NextSetFirstServer(Side1, tc.games); got != tc.want {
			t.Fatalf("games=%d: got %v, want %v", tc.games, got, tc.want)
		}
	}
}

func TestNextGameServerAlternates(t *testing.T) {
	s := Side1
	for i := 0; i < 6; i++ {
		n := NextGameServer(s)
		if n == s || !n.Valid() {
			t.Fatalf("server did not alternate from %v", s)
		}
		s = n
	}
}
