package room

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

func newTestRoom(t *testing.T, rate int64) *Room {
	t.Helper()
	rm, err := NewRoom(uuid.New(), uuid.New(), "Room 2B", "corner unit with window",
		decimal.NewFromInt(rate), 2)
	require.NoError(t, err)
	return rm
}

func TestNewRoom(t *testing.T) {
	rm := newTestRoom(t, 6000)

	assert.Equal(t, RoomStatusActive, rm.Status())
	assert.True(t, rm.IsBookable())
	assert.Equal(t, int64(1), rm.Version())
}

func TestNewRoom_Validation(t *testing.T) {
	_, err := NewRoom(uuid.Nil, uuid.New(), "Room", "", decimal.NewFromInt(100), 1)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = NewRoom(uuid.New(), uuid.New(), "", "", decimal.NewFromInt(100), 1)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = NewRoom(uuid.New(), uuid.New(), "Room", "", decimal.Zero, 1)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = NewRoom(uuid.New(), uuid.New(), "Room", "", decimal.NewFromInt(100), 0)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestArchive(t *testing.T) {
	rm := newTestRoom(t, 6000)
	before := rm.Version()

	rm.Archive()

	assert.Equal(t, RoomStatusArchived, rm.Status())
	assert.False(t, rm.IsBookable())
	assert.Equal(t, before+1, rm.Version())
}

func TestIsOwnedBy(t *testing.T) {
	rm := newTestRoom(t, 6000)

	assert.True(t, rm.IsOwnedBy(rm.OwnerID()))
	assert.False(t, rm.IsOwnedBy(uuid.New()))
}

func TestPriceStay(t *testing.T) {
	rm := newTestRoom(t, 6000)
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		nights int
		want   string
	}{
		{"full month", 30, "6000"},
		{"half month", 15, "3000"},
		{"single night", 1, "200"},
		{"two months", 60, "12000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rm.PriceStay(checkIn, checkIn.AddDate(0, 0, tt.nights))
			require.NoError(t, err)
			want, _ := decimal.NewFromString(tt.want)
			assert.True(t, got.Equal(want), "want %s, got %s", want, got)
		})
	}
}

func TestPriceStay_RoundsToCentavos(t *testing.T) {
	rm := newTestRoom(t, 7000)
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	got, err := rm.PriceStay(checkIn, checkIn.AddDate(0, 0, 1))
	require.NoError(t, err)
	want, _ := decimal.NewFromString("233.33")
	assert.True(t, got.Equal(want), "want %s, got %s", want, got)
}

func TestPriceStay_InvalidRange(t *testing.T) {
	rm := newTestRoom(t, 6000)
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err := rm.PriceStay(checkIn, checkIn)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = rm.PriceStay(checkIn, checkIn.AddDate(0, 0, -3))
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestUpdate_IgnoresInvalidValues(t *testing.T) {
	rm := newTestRoom(t, 6000)

	rm.Update("", "repainted", decimal.NewFromInt(-1), 0)

	assert.Equal(t, "Room 2B", rm.Name())
	assert.Equal(t, "repainted", rm.Description())
	assert.True(t, rm.MonthlyRate().Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, 2, rm.Capacity())
}
