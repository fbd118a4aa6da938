package fireid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coloradofire/perimeters/pkg/fireid"
)

func TestFireIDFullDate(t *testing.T) {
	s := fireid.New()
	month, day := 7, 4

	id := s.FireID(39.123456, -105.654321, 2020, &month, &day)

	assert.Equal(t, "CO391234105652020"+"0704", id)
	assert.Len(t, id, fireid.Length)
}

func TestFireIDNegativeLongitudeDropsSign(t *testing.T) {
	s := fireid.New()
	month, day := 1, 15

	id := s.FireID(37.5, -102.25, 2019, &month, &day)

	assert.Equal(t, "CO375000102252019"+"0115", id)
}

func TestFireIDMissingDateUsesSharedCounter(t *testing.T) {
	s := fireid.New()

	first := s.FireID(39.123456, -105.654321, 2018, nil, nil)
	second := s.FireID(39.123456, -105.654321, 2018, nil, nil)

	assert.Equal(t, "CO39123410565"+"2018"+"0001", first)
	assert.Equal(t, "CO39123410565"+"2018"+"0203", second)
}

func TestFireIDKnownMonthMissingDay(t *testing.T) {
	s := fireid.New()
	month := 6

	id := s.FireID(40.0, -106.0, 2021, &month, nil)

	assert.Equal(t, "CO400000106002021"+"0600", id)
	assert.Len(t, id, fireid.Length)
}

func TestFireIDShortCoordinatesStayFixedLength(t *testing.T) {
	s := fireid.New()
	month, day := 12, 31

	id := s.FireID(39.0, -105.0, 2022, &month, &day)

	assert.Len(t, id, fireid.Length)
	assert.Equal(t, "CO390000105002022"+"1231", id)
}
