package catalog

import "github.com/gravitas-games/baseplanner/pkg/models"

// WallKey is the key of the wall spec in the default catalog.
const WallKey = "wall"

func spec(key, name string, size int, radius float64, count int, cls string) Entry {
	return Entry{
		BuildingSpec: models.BuildingSpec{Key: key, Name: name, Size: size, Radius: radius, Class: cls},
		Count:        count,
	}
}

var defaultEntries = []Entry{
	spec("cannon", "cannon", 3, 9, 5, "cannon"),
	spec("archer-tower", "archer tower", 3, 10, 6, "archer"),
	spec(WallKey, "wall", 1, 0, 250, models.WallClass),
	spec("mortar", "mortar", 3, 11, 4, "mortar"),
	spec("air-defense", "air defense", 3, 10, 4, "airdef"),
	spec("wizard-tower", "wizard tower", 3, 7, 4, "wizard"),
	spec("air-sweeper", "air sweeper", 2, 15, 2, "sweeper"),
	spec("hidden-tesla", "hidden tesla", 2, 7, 4, "tesla"),
	spec("bomb-tower", "bomb tower", 3, 6, 1, "bomb"),
	spec("xbow", "x-bow", 3, 11.5, 2, "xbow"),
	spec("storage", "storage", 3, 0, 7, "storage"),
	spec("townhall", "townhall", 4, 0, 1, "th"),
	spec("clan-castle", "clan castle", 3, 13, 1, "clan"),
	spec("hero-beacon", "hero beacon", 2, 10, 1, "hero"),
	spec("spring-trap", "spring trap", 1, 0, 6, "spring"),
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultEntries...)
	if err != nil {
		// the built-in table is static; a failure here is a programming error
		panic(err)
	}
	return c
}
