package engine

import (
	"fmt"

	"github.com/dustin/go-humanize/english"
)

// postDiscoveryLetter announces how many factions the player knows of.
// The wording depends on whether the colonists start already on the map.
func (s *Simulation) postDiscoveryLetter(total int) Letter {
	factions := english.Plural(total, "faction", "")
	if s.Scenario != nil && s.Scenario.StartsDeployed(s.GameInit) {
		return s.Letters.Receive(
			"Factions spotted",
			fmt.Sprintf("During the descent your colonists spotted the settlements of %s in the region.", factions),
			LetterPositive,
		)
	}
	return s.Letters.Receive(
		"Known factions",
		fmt.Sprintf("Your colonists set out knowing of %s in the region.", factions),
		LetterPositive,
	)
}
