package board

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestParseCell(t *testing.T) {
	is := is.New(t)
	type testcase struct {
		code  string
		kind  Kind
		color Color
		power int
	}
	cases := []testcase{
		{"P", Player, NoColor, 0},
		{"R", Monster, Red, 0},
		{"G", Monster, Green, 0},
		{"B", Monster, Blue, 0},
		{"Y", Monster, Yellow, 0},
		{"T_R", Treasure, Red, 1},
		{"T_Y4", Treasure, Yellow, 4},
		{"T_B12", Treasure, Blue, 12},
		{"B1", Boss, NoColor, 1},
		{"B7", Boss, NoColor, 7},
		{"B0", Boss, NoColor, 0},
		{"C", Crystal, NoColor, 0},
		{"X", Obstacle, NoColor, 0},
		{"", Empty, NoColor, 0},
		{"Q", Empty, NoColor, 0},
		{"T", Empty, NoColor, 0},
		{" X ", Obstacle, NoColor, 0},
	}
	for _, tc := range cases {
		counter := 0
		c, err := parseCell(tc.code, &counter)
		is.NoErr(err)
		is.Equal(c.Kind, tc.kind)
		is.Equal(c.Color, tc.color)
		is.Equal(c.Power, tc.power)
		if tc.kind == Boss {
			is.Equal(c.BossIndex, 0)
			is.Equal(counter, 1)
		} else {
			is.Equal(c.BossIndex, -1)
			is.Equal(counter, 0)
		}
	}
}

func TestParseCellErrors(t *testing.T) {
	is := is.New(t)
	for _, code := range []string{"T_", "T_Q", "T_R2x", "Bx", "B-1", "T_G-3"} {
		counter := 0
		_, err := parseCell(code, &counter)
		is.True(err != nil)
	}
}

func TestBossIndicesFollowScanOrder(t *testing.T) {
	is := is.New(t)
	b, err := SampleBoard("arena")
	is.NoErr(err)
	is.Equal(b.NumBosses(), 3)
	is.Equal(b.At(Coord{X: 6, Y: 0}).BossIndex, 0)
	is.Equal(b.At(Coord{X: 3, Y: 3}).BossIndex, 1)
	is.Equal(b.At(Coord{X: 6, Y: 6}).BossIndex, 2)
	is.Equal(b.InitialBossHP(), []int{2, 3, 5})
	is.Equal(b.Start(), Coord{X: 0, Y: 0})
}

func TestInitialBossHPIsACopy(t *testing.T) {
	is := is.New(t)
	b, err := ParseText(OpenBoss)
	is.NoErr(err)
	hp := b.InitialBossHP()
	hp[0] = 0
	is.Equal(b.InitialBossHP(), []int{1})
}

func TestTextRoundTrip(t *testing.T) {
	is := is.New(t)
	for name, text := range sampleBoards {
		b, err := ParseText(text)
		is.NoErr(err)
		b2, err := ParseText(b.String())
		is.NoErr(err)
		is.Equal(b.String(), b2.String())
		is.Equal(b.InitialBossHP(), b2.InitialBossHP())
		is.Equal(b.Fingerprint(), b2.Fingerprint())
		t.Log(name, b.String())
	}
}

func TestFingerprintDiffers(t *testing.T) {
	is := is.New(t)
	b1, err := ParseText(FencedEmpty)
	is.NoErr(err)
	b2, err := ParseText(FencedBoss)
	is.NoErr(err)
	is.True(b1.Fingerprint() != b2.Fingerprint())
}

func TestParseTextErrors(t *testing.T) {
	is := is.New(t)

	_, err := ParseText("P,,,,,,/,,,,,,")
	is.True(errors.Is(err, ErrWrongRowCount))

	_, err = ParseText("P,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,")
	is.True(errors.Is(err, ErrWrongColumnCount))

	_, err = ParseText(",,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,")
	is.True(errors.Is(err, ErrNoPlayer))

	_, err = ParseText("P,P,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,")
	is.True(errors.Is(err, ErrMultiplePlayers))

	_, err = ParseText("P,Bz,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,/,,,,,,")
	is.True(err != nil)
}

func TestLoadFile(t *testing.T) {
	is := is.New(t)
	b, err := LoadFile("./testdata/arena.yaml")
	is.NoErr(err)
	is.Equal(b.Name(), "arena")
	is.Equal(b.String(), Arena)

	b, err = LoadFile("./testdata/text.yaml")
	is.NoErr(err)
	is.Equal(b.Name(), "./testdata/text.yaml")
	is.Equal(b.String(), OpenBoss)

	_, err = LoadFile("./testdata/noplayer.yaml")
	is.True(errors.Is(err, ErrNoPlayer))

	_, err = LoadFile("./testdata/doesnotexist.yaml")
	is.True(err != nil)
}

func TestNewWithDuplicateBossIndex(t *testing.T) {
	is := is.New(t)
	var cells [Dim][Dim]Cell
	for y := range cells {
		for x := range cells[y] {
			cells[y][x] = NewCell(Empty, NoColor, 0)
		}
	}
	cells[0][0] = NewCell(Player, NoColor, 0)
	boss := NewCell(Boss, NoColor, 2)
	boss.BossIndex = 0
	cells[0][1] = boss
	cells[1][1] = boss
	b, err := New("dup", cells)
	is.NoErr(err)
	is.Equal(b.InitialBossHP(), []int{2})
}

func TestDisplayTextWithPath(t *testing.T) {
	is := is.New(t)
	b, err := ParseText(FencedBoss)
	is.NoErr(err)
	plain := b.ToDisplayText()
	withPath := b.ToDisplayTextWithPath([]Coord{{0, 0}, {1, 0}, {1, 1}})
	is.True(plain != withPath)
	t.Log(plain)
	t.Log(withPath)
}

func TestSampleBoards(t *testing.T) {
	is := is.New(t)
	names := SampleBoardNames()
	is.Equal(len(names), 7)
	for _, name := range names {
		b, err := SampleBoard(name)
		is.NoErr(err)
		is.Equal(b.Name(), name)
		is.Equal(b.Start(), Coord{X: 0, Y: 0})
	}
	_, err := SampleBoard("nope")
	is.True(err != nil)
}
