package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semlink/internal/core/domain"
)

func TestRecommendCmd_Defaults(t *testing.T) {
	flag := recommendCmd.Flags().Lookup("mode")
	require.NotNil(t, flag)
	assert.Equal(t, "related", flag.DefValue)

	flag = recommendCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "5", flag.DefValue)
}

func TestRecommendCmd_Related(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	ts.recommend.recs = []domain.Recommendation{
		{Slug: "go/maps", Title: "Maps in Go", Score: 0.74, Explanation: "Highly similar content", Date: &date},
	}

	out, err := execute(t, "recommend", "go/channels")

	require.NoError(t, err)
	assert.Equal(t, domain.RecommendRequest{
		Mode:        domain.RecommendRelated,
		CurrentSlug: "go/channels",
		Limit:       5,
	}, ts.recommend.lastRequest)
	assert.Contains(t, out, "Recommendations (related)")
	assert.Contains(t, out, "Maps in Go")
	assert.Contains(t, out, "Highly similar content")
	assert.Contains(t, out, "2026-04-02")
}

func TestRecommendCmd_TrendingWithoutSlug(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "recommend", "--mode", "trending", "-n", "2")

	require.NoError(t, err)
	assert.Equal(t, domain.RecommendTrending, ts.recommend.lastRequest.Mode)
	assert.Equal(t, 2, ts.recommend.lastRequest.Limit)
	assert.Empty(t, ts.recommend.lastRequest.CurrentSlug)
	assert.Contains(t, out, "No recommendations.")
}

func TestRecommendCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.recommend.recs = []domain.Recommendation{{Slug: "intro", Title: "Intro", Score: 0.5}}

	out, err := execute(t, "recommend", "--json", "--mode", "personalized")

	require.NoError(t, err)
	var recs []domain.Recommendation
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "intro", recs[0].Slug)
}

func TestRecommendCmd_EmptyJSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "recommend", "--json", "--mode", "trending")

	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestRecommendCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.recommend.err = domain.ErrNotFound

	_, err := execute(t, "recommend", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
