package domain

// CityName - название города из закрытого списка.
type CityName string

const (
	CityParis      CityName = "Paris"
	CityCologne    CityName = "Cologne"
	CityBrussels   CityName = "Brussels"
	CityAmsterdam  CityName = "Amsterdam"
	CityHamburg    CityName = "Hamburg"
	CityDusseldorf CityName = "Dusseldorf"
)

// Cities - все города в порядке вкладок.
var Cities = []CityName{
	CityParis,
	CityCologne,
	CityBrussels,
	CityAmsterdam,
	CityHamburg,
	CityDusseldorf,
}

// IsValid проверяет, что город входит в закрытый список.
func (c CityName) IsValid() bool {
	for _, city := range Cities {
		if city == c {
			return true
		}
	}
	return false
}

// SortingType - критерий сортировки списка предложений.
type SortingType string

const (
	SortingPopular        SortingType = "popular"
	SortingPriceLowToHigh SortingType = "price-low-to-high"
	SortingPriceHighToLow SortingType = "price-high-to-low"
	SortingTopRatedFirst  SortingType = "top-rated-first"
)

// SortingTypes - все варианты сортировки в порядке выпадающего списка.
var SortingTypes = []SortingType{
	SortingPopular,
	SortingPriceLowToHigh,
	SortingPriceHighToLow,
	SortingTopRatedFirst,
}

func (s SortingType) IsValid() bool {
	for _, st := range SortingTypes {
		if st == s {
			return true
		}
	}
	return false
}
