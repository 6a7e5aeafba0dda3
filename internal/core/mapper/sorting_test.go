package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"six-cities/internal/core/domain"
)

func sortingFixture() []domain.Offer {
	return []domain.Offer{
		newOffer("1", 120, 4.0, domain.CityParis),
		newOffer("2", 80, 4.8, domain.CityParis),
		newOffer("3", 200, 3.1, domain.CityParis),
		newOffer("4", 80, 4.8, domain.CityParis),
		newOffer("5", 150, 2.0, domain.CityParis),
	}
}

func ids(offers []domain.Offer) []string {
	result := make([]string, len(offers))
	for i, o := range offers {
		result[i] = o.ID
	}
	return result
}

func TestSortOffers_DoesNotMutateInput(t *testing.T) {
	for _, sorting := range domain.SortingTypes {
		input := sortingFixture()
		snapshot := sortingFixture()

		result := SortOffers(input, sorting)

		assert.Equal(t, snapshot, input, "sorting %s mutated input", sorting)
		require.Len(t, result, len(input))
		if len(result) > 0 {
			assert.NotSame(t, &input[0], &result[0], "sorting %s must return a new slice", sorting)
		}
	}
}

func TestSortOffers_Popular(t *testing.T) {
	input := sortingFixture()
	assert.Equal(t, input, SortOffers(input, domain.SortingPopular))
}

func TestSortOffers_PriceLowToHigh(t *testing.T) {
	result := SortOffers(sortingFixture(), domain.SortingPriceLowToHigh)

	for i := 1; i < len(result); i++ {
		assert.LessOrEqual(t, result[i-1].Price, result[i].Price)
	}
	// равные цены сохраняют исходный порядок
	assert.Equal(t, []string{"2", "4", "1", "5", "3"}, ids(result))
}

func TestSortOffers_PriceHighToLow(t *testing.T) {
	result := SortOffers(sortingFixture(), domain.SortingPriceHighToLow)

	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].Price, result[i].Price)
	}
	assert.Equal(t, []string{"3", "5", "1", "2", "4"}, ids(result))
}

func TestSortOffers_TopRatedFirst(t *testing.T) {
	result := SortOffers(sortingFixture(), domain.SortingTopRatedFirst)
	assert.Equal(t, []string{"2", "4", "1", "3", "5"}, ids(result))
}

func TestSortOffers_EmptyAndSingle(t *testing.T) {
	empty := SortOffers([]domain.Offer{}, domain.SortingPriceLowToHigh)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	single := []domain.Offer{newOffer("1", 100, 3, domain.CityParis)}
	assert.Equal(t, single, SortOffers(single, domain.SortingTopRatedFirst))
}
