package relationship

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilsong/npccore/internal/types"
)

func newTestGraph() *Graph {
	g := NewGraph()
	g.nowFunc = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return g
}

func TestUpdateCreatesEdgeFromNeutralBaseline(t *testing.T) {
	g := newTestGraph()

	rel := g.Update(1, 2, DeltaPleasantChat)

	assert.InDelta(t, 0.54, rel.Trust, 1e-9)
	assert.InDelta(t, 0.52, rel.Respect, 1e-9)
	assert.Equal(t, 1, rel.InteractionCount)
	require.Len(t, rel.History, 1)
	assert.Equal(t, "pleasant_chat", rel.History[0].Kind)
}

func TestHelpedInCombatThreeTimesMakesFriend(t *testing.T) {
	g := newTestGraph()

	var rel *Relationship
	for i := 0; i < 3; i++ {
		rel = g.Update(1, 2, DeltaHelpedInCombat)
	}

	assert.Equal(t, 1.0, rel.Trust, "trust 0.5+3*0.2 clamps to 1.0")
	assert.InDelta(t, 0.95, rel.Respect, 1e-9)
	assert.InDelta(t, 0.8, rel.Affection, 1e-9)
	assert.Equal(t, 0.0, rel.Tension)
	assert.Equal(t, TypeFriend, rel.Type)
}

func TestBetrayalFlipsFriendToEnemy(t *testing.T) {
	g := newTestGraph()
	rel := g.Update(1, 2, Delta{Kind: "seed", Trust: 0.4, Respect: 0.3, Affection: 0.3, Tension: 0.1})
	require.Equal(t, TypeFriend, rel.Type)
	require.InDelta(t, 0.9, rel.Trust, 1e-9)

	rel = g.Update(1, 2, DeltaBetrayedTrust)

	assert.InDelta(t, 0.4, rel.Trust, 1e-9)
	assert.InDelta(t, 0.5, rel.Tension, 1e-9)
	assert.Equal(t, TypeEnemy, rel.Type)
}

func TestFieldsStayClampedUnderArbitraryDeltas(t *testing.T) {
	g := newTestGraph()
	deltas := []Delta{
		{Trust: 5, Respect: -5, Affection: 2, Familiarity: 3, Tension: -9},
		{Trust: -2, Respect: 2, Affection: -3, Familiarity: -1, Tension: 4},
		DeltaBetrayedTrust, DeltaHelpedInCombat, DeltaThreatened,
	}

	for _, d := range deltas {
		rel := g.Update(3, 4, d)
		for name, v := range map[string]float64{
			"trust": rel.Trust, "respect": rel.Respect, "affection": rel.Affection,
			"familiarity": rel.Familiarity, "tension": rel.Tension,
		} {
			assert.GreaterOrEqual(t, v, 0.0, name)
			assert.LessOrEqual(t, v, 1.0, name)
		}
		assert.Equal(t, classify(rel), rel.Type, "type must never be stale")
	}
}

func TestTotalImpactExcludesFamiliarity(t *testing.T) {
	d := Delta{Trust: 0.2, Respect: 0.2, Affection: 0.2, Familiarity: 0.9, Tension: 0.2}
	assert.InDelta(t, 0.2, d.TotalImpact(), 1e-9)
}

func TestHistoryCapped(t *testing.T) {
	g := newTestGraph()
	for i := 0; i < historyCap+10; i++ {
		g.Update(1, 2, DeltaSharedMeal)
	}
	rel, ok := g.Get(1, 2)
	require.True(t, ok)
	assert.Len(t, rel.History, historyCap)
}

func TestDecayRelaxesTowardRestingState(t *testing.T) {
	g := newTestGraph()
	g.Update(1, 2, Delta{Kind: "bond", Trust: 0.5, Respect: 0.3, Affection: 0.3, Familiarity: 0.9, Tension: 0.0})
	rel, _ := g.Get(1, 2)
	require.Equal(t, 1.0, rel.Trust)

	// 1000 one-second passes at rate 0.01: trust approaches 0.5 from above
	// and never undershoots.
	for i := 0; i < 1000; i++ {
		g.Decay(1, 0.01)
	}

	rel, ok := g.Get(1, 2)
	require.True(t, ok, "familiar edge must survive decay")
	assert.Greater(t, rel.Trust, 0.5)
	assert.InDelta(t, 0.5, rel.Trust, 0.01)
}

func TestDecayPrunesColdEdges(t *testing.T) {
	g := newTestGraph()
	g.Update(1, 2, Delta{Kind: "glance", Trust: -0.3, Respect: -0.3, Affection: -0.3, Familiarity: 0.01, Tension: 0.05})

	// Combined state 0.65 with familiarity 0.01: the edge is cold and the
	// next decay pass drops it.
	g.Decay(1, 0.01)

	_, ok := g.Get(1, 2)
	assert.False(t, ok)
}

func TestDecayZeroDtUnchanged(t *testing.T) {
	g := newTestGraph()
	g.Update(1, 2, DeltaGiftGiven)
	before, _ := g.Get(1, 2)
	trust := before.Trust

	g.Decay(0, 0.01)

	after, ok := g.Get(1, 2)
	require.True(t, ok)
	assert.Equal(t, trust, after.Trust)
}

func TestFindPathPrefersTrustedRoutes(t *testing.T) {
	g := newTestGraph()
	// Direct route exists but is distrusted; the detour through 3 is
	// high-trust on both hops and therefore cheaper.
	g.Update(1, 2, Delta{Kind: "feud", Trust: -0.45})
	g.Update(1, 3, Delta{Kind: "bond", Trust: 0.5})
	g.Update(3, 2, Delta{Kind: "bond", Trust: 0.5})

	path := g.FindPath(1, 2)

	require.Equal(t, []types.Entity{1, 3, 2}, path)
}

func TestFindPathUnreachable(t *testing.T) {
	g := newTestGraph()
	g.AddNode(1, "hermit")
	g.AddNode(2, "stranger")

	assert.Nil(t, g.FindPath(1, 2))
	assert.Equal(t, []types.Entity{1}, g.FindPath(1, 1))
}

func TestInfluenceNormalized(t *testing.T) {
	g := newTestGraph()
	for e := types.Entity(2); e <= 5; e++ {
		g.Update(1, e, Delta{Kind: "bond", Trust: 0.5})
	}

	inf := g.Influence(1)
	assert.Greater(t, inf, 0.0)
	assert.LessOrEqual(t, inf, 1.0)
	assert.Equal(t, 0.0, g.Influence(99))
}

func TestReputationClampAndStanding(t *testing.T) {
	r := NewReputation()
	r.nowFunc = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	score := r.Adjust(1, "veil_wardens", "saved_patrol", 0.5)
	assert.InDelta(t, 0.5, score, 1e-9)
	assert.Equal(t, StandingHonored, r.Standing(1, "veil_wardens"))

	r.Adjust(1, "veil_wardens", "heroics", 0.9)
	assert.Equal(t, 1.0, r.Score(1, "veil_wardens"))
	assert.Equal(t, StandingRevered, r.Standing(1, "veil_wardens"))

	// Groups are independent ledgers.
	assert.Equal(t, 0.0, r.Score(1, "smugglers"))
	assert.Equal(t, StandingNeutral, r.Standing(1, "smugglers"))

	for i := 0; i < 10; i++ {
		r.Adjust(1, "smugglers", "raid", -0.3)
	}
	assert.Equal(t, -1.0, r.Score(1, "smugglers"))
	assert.Equal(t, StandingDespised, r.Standing(1, "smugglers"))
}

func TestReputationHistoryBounded(t *testing.T) {
	r := NewReputation()
	for i := 0; i < reputationHistoryCap+25; i++ {
		r.Adjust(2, "market", "haggling", 0.01)
	}
	assert.Len(t, r.History(2, "market"), reputationHistoryCap)
}
