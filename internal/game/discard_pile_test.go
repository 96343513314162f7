package game

import (
	"testing"

	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscardPileTop(t *testing.T) {
	p := NewDiscardPile()
	_, err := p.Top()
	assert.ErrorIs(t, err, ErrEmptyPile)

	cards := models.StandardDeck()
	p.Discard(cards[0])
	p.Discard(cards[1])
	top, err := p.Top()
	require.NoError(t, err)
	assert.Equal(t, cards[1].ID, top.ID)
	assert.Equal(t, 2, p.Size())
}

func TestRecycleKeepsTop(t *testing.T) {
	cards := models.StandardDeck()
	for n := 0; n <= 5; n++ {
		p := NewDiscardPile()
		for _, c := range cards[:n] {
			p.Discard(c)
		}
		recycled := p.Recycle()

		if n <= 1 {
			assert.Empty(t, recycled, "n=%d", n)
			assert.Equal(t, n, p.Size(), "n=%d", n)
			continue
		}
		assert.Len(t, recycled, n-1, "n=%d", n)
		assert.Equal(t, 1, p.Size(), "n=%d", n)
		top, err := p.Top()
		require.NoError(t, err)
		assert.Equal(t, cards[n-1].ID, top.ID, "the top card stays")
		for _, c := range recycled {
			assert.NotEqual(t, top.ID, c.ID)
		}
	}
}

func TestRecycledSliceIsDetached(t *testing.T) {
	cards := models.StandardDeck()
	p := NewDiscardPile()
	for _, c := range cards[:4] {
		p.Discard(c)
	}
	recycled := p.Recycle()
	p.Discard(cards[10])
	p.Discard(cards[11])

	assert.Equal(t, cards[0].ID, recycled[0].ID)
	assert.Equal(t, cards[2].ID, recycled[2].ID)
}
