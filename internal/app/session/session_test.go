package session

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/tomatoes/internal/domain"
	"github.com/John-Robertt/tomatoes/internal/render"
)

func sample() []domain.Movie {
	return []domain.Movie{
		{Name: "Movie Z", Critic: domain.Numeric(75), Audience: domain.Numeric(70)},
		{Name: "Movie Y", Critic: domain.Text("Coming soon"), Audience: domain.Text("want to see")},
		{Name: "Movie X", Critic: domain.Numeric(90), Audience: domain.Numeric(80)},
	}
}

func names(ms []domain.Movie) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Name)
	}
	return out
}

func TestParseCommand(t *testing.T) {
	for in, want := range map[string]Command{
		"audience":     CmdAudience,
		"  Critic ":    CmdCritic,
		"ANTICIPATION": CmdAnticipation,
		"pLoT":         CmdPlot,
		"quit\r":       CmdQuit,
	} {
		got, ok := ParseCommand(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "sort", "critics", "q"} {
		_, ok := ParseCommand(in)
		require.False(t, ok, in)
	}
}

func TestSuggest(t *testing.T) {
	got, ok := Suggest("crtic")
	require.True(t, ok)
	require.Equal(t, CmdCritic, got)

	got, ok = Suggest("audeince")
	require.True(t, ok)
	require.Equal(t, CmdAudience, got)

	_, ok = Suggest("hello")
	require.False(t, ok)
	_, ok = Suggest("   ")
	require.False(t, ok)
}

func TestApply_SortCommandsReplaceCollection(t *testing.T) {
	s := New(sample(), Options{NameWidth: 22})
	var out bytes.Buffer

	quit, err := s.Apply(CmdCritic, &out)
	require.NoError(t, err)
	require.False(t, quit)
	require.Equal(t, []string{"Movie X", "Movie Z", "Movie Y"}, names(s.Movies()))
	require.Equal(t, domain.SortCritic, s.SortedBy())
	require.Contains(t, out.String(), "Movie name:")

	_, err = s.Apply(CmdAnticipation, &out)
	require.NoError(t, err)
	require.Equal(t, []string{"Movie Y", "Movie X", "Movie Z"}, names(s.Movies()))

	_, err = s.Apply(CmdAudience, &out)
	require.NoError(t, err)
	require.Equal(t, []string{"Movie X", "Movie Z", "Movie Y"}, names(s.Movies()))
}

func TestApply_PlotDoesNotReorder(t *testing.T) {
	s := New(sample(), Options{ChartPath: "chart.xlsx", ChartNameWidth: 10})
	var got []string
	s.chart = func(path string, movies []domain.Movie, nameWidth int) (int, error) {
		require.Equal(t, "chart.xlsx", path)
		require.Equal(t, 10, nameWidth)
		got = names(movies)
		return 2, nil
	}

	var out bytes.Buffer
	quit, err := s.Apply(CmdPlot, &out)
	require.NoError(t, err)
	require.False(t, quit)
	require.Equal(t, []string{"Movie Z", "Movie Y", "Movie X"}, got)
	require.Equal(t, []string{"Movie Z", "Movie Y", "Movie X"}, names(s.Movies()))
	require.Contains(t, out.String(), "Chart of 2 movies written to chart.xlsx")
}

func TestApply_PlotFailureKeepsSession(t *testing.T) {
	s := New(sample(), Options{ChartPath: "chart.xlsx"})
	s.chart = func(string, []domain.Movie, int) (int, error) { return 0, errors.New("disk full") }

	var out bytes.Buffer
	quit, err := s.Apply(CmdPlot, &out)
	require.NoError(t, err)
	require.False(t, quit)
	require.Contains(t, out.String(), "Could not write chart: disk full")

	s.chart = func(string, []domain.Movie, int) (int, error) { return 0, render.ErrNothingToChart }
	out.Reset()
	_, err = s.Apply(CmdPlot, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "No movies with both critic and audience scores to plot.")
}

func TestRun_ScriptedSession(t *testing.T) {
	s := New(sample(), Options{NameWidth: 22})
	in := strings.NewReader("critic\nxyz\ncrtic\nQUIT\naudience\n")
	var out bytes.Buffer

	require.NoError(t, s.Run(context.Background(), in, &out))

	text := out.String()
	require.Equal(t, 4, strings.Count(text, prompt))
	require.Contains(t, text, "ANTICIPATION: Sort by audience anticipation")
	require.Equal(t, 2, strings.Count(text, "Invalid choice."))
	require.Equal(t, 1, strings.Count(text, "Did you mean CRITIC?"))
	// QUIT 之后的输入不会被处理。
	require.Equal(t, []string{"Movie X", "Movie Z", "Movie Y"}, names(s.Movies()))
	require.Equal(t, domain.SortCritic, s.SortedBy())
}

func TestRun_EOFEndsSession(t *testing.T) {
	s := New(sample(), Options{NameWidth: 22})
	var out bytes.Buffer

	require.NoError(t, s.Run(context.Background(), strings.NewReader("anticipation"), &out))
	require.Equal(t, 2, strings.Count(out.String(), prompt))
	require.Equal(t, domain.SortAnticipation, s.SortedBy())
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(sample(), Options{}).Run(ctx, strings.NewReader("critic\n"), &bytes.Buffer{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_PlotWritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.xlsx")
	s := New(sample(), Options{NameWidth: 22, ChartNameWidth: 10, ChartPath: path})
	var out bytes.Buffer

	require.NoError(t, s.Run(context.Background(), strings.NewReader("plot\nquit\n"), &out))
	require.FileExists(t, path)
	require.Contains(t, out.String(), "Chart of 2 movies written to "+path)
}
