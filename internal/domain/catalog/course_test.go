package catalog

import (
	"testing"

	"github.com/eduplatform/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCourse(t *testing.T) *Course {
	t.Helper()
	c, err := NewCourse("GO-101", "Intro to Go", uuid.New(), valueobject.NewMoneyIDRFromInt(1500000), 30)
	require.NoError(t, err)
	return c
}

func TestNewCourse(t *testing.T) {
	t.Run("creates draft course", func(t *testing.T) {
		c := createTestCourse(t)
		assert.Equal(t, CourseStatusDraft, c.Status)
		assert.False(t, c.IsEnrollable())
		assert.True(t, c.Price.Equal(decimal.NewFromInt(1500000)))
	})

	t.Run("validation failures", func(t *testing.T) {
		price := valueobject.NewMoneyIDRFromInt(1000)

		_, err := NewCourse("", "Name", uuid.New(), price, 10)
		assert.Error(t, err)

		_, err = NewCourse("C1", "", uuid.New(), price, 10)
		assert.Error(t, err)

		_, err = NewCourse("C1", "Name", uuid.Nil, price, 10)
		assert.Error(t, err)

		_, err = NewCourse("C1", "Name", uuid.New(), valueobject.NewMoneyIDRFromInt(0), 10)
		assert.Error(t, err)

		_, err = NewCourse("C1", "Name", uuid.New(), price, -1)
		assert.Error(t, err)
	})
}

func TestCourse_Lifecycle(t *testing.T) {
	t.Run("publish and archive", func(t *testing.T) {
		c := createTestCourse(t)
		require.NoError(t, c.Publish())
		assert.True(t, c.IsEnrollable())
		assert.NotNil(t, c.PublishedAt)

		require.NoError(t, c.Publish(), "publishing twice is a no-op")

		require.NoError(t, c.Archive())
		assert.False(t, c.IsEnrollable())
		assert.Error(t, c.Publish(), "archived course cannot be republished")
	})

	t.Run("change price keeps currency", func(t *testing.T) {
		c := createTestCourse(t)
		require.NoError(t, c.ChangePrice(valueobject.NewMoneyIDRFromInt(1750000)))
		assert.True(t, c.Price.Equal(decimal.NewFromInt(1750000)))

		usd, err := valueobject.NewMoney(decimal.NewFromInt(99), valueobject.USD)
		require.NoError(t, err)
		assert.Error(t, c.ChangePrice(usd))
	})
}
