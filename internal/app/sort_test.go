package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/tomatoes/internal/domain"
)

func TestSortBy_CriticTieIsStable(t *testing.T) {
	in := []domain.Movie{
		{Name: "missing"},
		{Name: "first", Critic: domain.Numeric(90)},
		{Name: "second", Critic: domain.Numeric(90)},
	}
	got := SortBy(in, domain.SortCritic)
	if diff := cmp.Diff([]string{"first", "second", "missing"}, movieNames(got)); diff != "" {
		t.Fatalf("排序不符合预期 (-want +got):\n%s", diff)
	}
}

func TestSortBy_CriticTwoTiers(t *testing.T) {
	in := []domain.Movie{
		{Name: "soon", Critic: domain.Text("Coming soon")},
		{Name: "low", Critic: domain.Numeric(12)},
		{Name: "none"},
		{Name: "tba", Critic: domain.Text("TBA")},
		{Name: "high", Critic: domain.Numeric(97)},
	}
	got := SortBy(in, domain.SortCritic)
	if diff := cmp.Diff([]string{"high", "low", "tba", "soon", "none"}, movieNames(got)); diff != "" {
		t.Fatalf("排序不符合预期 (-want +got):\n%s", diff)
	}
}

func TestSortBy_DoesNotMutateInput(t *testing.T) {
	in := []domain.Movie{{Name: "b", Critic: domain.Numeric(1)}, {Name: "a", Critic: domain.Numeric(2)}}
	_ = SortBy(in, domain.SortCritic)
	require.Equal(t, []string{"b", "a"}, movieNames(in))
}

func TestSortBy_Audience(t *testing.T) {
	in := []domain.Movie{
		{Name: "want", Audience: domain.Text("want to see")},
		{Name: "mid", Audience: domain.Numeric(60)},
		{Name: "none"},
		{Name: "liked", Audience: domain.Text("liked it")},
		{Name: "top", Audience: domain.Numeric(88)},
	}
	got := SortBy(in, domain.SortAudience)
	// 想看标记整体排在最后，即使它的原文按字典序更大。
	if diff := cmp.Diff([]string{"top", "mid", "liked", "none", "want"}, movieNames(got)); diff != "" {
		t.Fatalf("排序不符合预期 (-want +got):\n%s", diff)
	}
}

func TestSortBy_Anticipation(t *testing.T) {
	in := []domain.Movie{
		{Name: "mid", Audience: domain.Numeric(60)},
		{Name: "liked", Audience: domain.Text("liked it")},
		{Name: "want-a", Audience: domain.Text("Want to see")},
		{Name: "none"},
		{Name: "want-b", Audience: domain.Text("want to see")},
		{Name: "top", Audience: domain.Numeric(88)},
	}
	got := SortBy(in, domain.SortAnticipation)
	// 想看标记在前（字典序降序："want to see" > "Want to see"），其余按观众评分降序，liked 整体排在最后。
	if diff := cmp.Diff([]string{"want-b", "want-a", "top", "mid", "none", "liked"}, movieNames(got)); diff != "" {
		t.Fatalf("排序不符合预期 (-want +got):\n%s", diff)
	}
}

func TestSortBy_AudienceWantTierIsLastAndStable(t *testing.T) {
	in := []domain.Movie{
		{Name: "want-1", Audience: domain.Text("want to see")},
		{Name: "liked", Audience: domain.Text("liked it")},
		{Name: "num", Audience: domain.Numeric(70)},
		{Name: "want-2", Audience: domain.Text("want to see")},
		{Name: "want-3", Audience: domain.Text("Want To See")},
	}
	got := SortBy(in, domain.SortAudience)
	require.Equal(t, []string{"num", "liked", "want-1", "want-2", "want-3"}, movieNames(got))
}

func TestSortBy_EndToEndScenario(t *testing.T) {
	merged := MergeListing(
		[]domain.Movie{
			{Name: "Movie X", DetailURL: "/m/x", Critic: domain.Numeric(90), Audience: domain.Numeric(80)},
			{Name: "Movie Y", DetailURL: "/m/y", Critic: domain.Text("Coming soon")},
		},
		[]domain.Movie{
			{Name: "Movie Y", DetailURL: "/m/y", Critic: domain.Text("Coming soon")},
			{Name: "Movie Z", DetailURL: "/m/z", Critic: domain.Numeric(75), Audience: domain.Numeric(70)},
		},
	)
	require.Equal(t, []string{"Movie X", "Movie Y", "Movie Z"}, movieNames(merged))

	got := SortBy(merged, domain.SortCritic)
	require.Equal(t, []string{"Movie X", "Movie Z", "Movie Y"}, movieNames(got))
	require.Equal(t, domain.Text("Coming soon"), got[2].Critic)
}

func TestSortBy_Empty(t *testing.T) {
	require.Empty(t, SortBy(nil, domain.SortAudience))
}

func TestChartable(t *testing.T) {
	in := []domain.Movie{
		{Name: "both", Critic: domain.Numeric(90), Audience: domain.Numeric(80)},
		{Name: "critic-only", Critic: domain.Numeric(90)},
		{Name: "text", Critic: domain.Numeric(50), Audience: domain.Text("want to see")},
		{Name: "both-2", Critic: domain.Numeric(10), Audience: domain.Numeric(20)},
	}
	require.Equal(t, []string{"both", "both-2"}, movieNames(Chartable(in)))
}
