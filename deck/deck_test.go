package deck

import (
	"testing"

	utils "github.com/minaorangina/telefunken/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeck(t *testing.T) {
	t.Run("full pool", func(t *testing.T) {
		d := New()
		require.Len(t, d, 108)

		ids := map[int]bool{}
		faces := map[Face]int{}
		for i, c := range d {
			assert.Equal(t, i, c.ID)
			ids[c.ID] = true
			faces[c.Face()]++
		}
		assert.Len(t, ids, 108)
		assert.Equal(t, 4, faces[JokerFace])
		for _, s := range suits {
			for _, r := range ranks {
				assert.Equal(t, 2, faces[Face{s, r}], "%s", Face{s, r})
			}
		}
	})

	t.Run("deals from the top", func(t *testing.T) {
		d := New()
		top, _ := d.Top()
		dealt := d.Deal(11)
		utils.AssertLen(t, dealt, 11)
		utils.AssertLen(t, d, 97)
		assert.Equal(t, top, dealt[10])
		assert.False(t, Contains(d, top))
	})

	t.Run("dealt cards do not alias the deck", func(t *testing.T) {
		d := New()
		dealt := d.Deal(2)
		d = append(d, NewCard(999, Two, Clubs))
		assert.NotEqual(t, 999, dealt[0].ID)
	})

	t.Run("deals what is left", func(t *testing.T) {
		d := New()[:3]
		utils.AssertLen(t, d.Deal(5), 3)
		_, ok := d.Draw()
		assert.False(t, ok)
	})

	t.Run("seeded shuffle is reproducible", func(t *testing.T) {
		a, b := New(), New()
		Seeded(42)(a)
		Seeded(42)(b)
		assert.Equal(t, a, b)
		assert.NotEqual(t, New(), a)
	})
}

func TestQuery(t *testing.T) {
	d := New()

	c, i := Find(d, ByID(60))
	assert.Equal(t, 60, i)
	assert.Equal(t, 60, c.ID)

	_, i = Find(d, ByID(500))
	assert.Equal(t, -1, i)

	assert.Len(t, FindAll(d, ByName("8 of spades")), 2)
	assert.Len(t, FindAll(d, ByName("Joker")), 4)
	assert.Len(t, FindAll(d, ByFace(Face{Hearts, King})), 2)

	hand := d[:5]
	rest := Remove(hand, hand[1], hand[3])
	assert.Equal(t, []Card{hand[0], hand[2], hand[4]}, rest)
	assert.Len(t, hand, 5)
}
