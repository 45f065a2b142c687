package domain

// DefaultSnapshot is the data a fresh session starts with when seeding is
// enabled.
func DefaultSnapshot() Snapshot {
	machine := func(id int) *int { return &id }
	return Snapshot{
		Parts: []PartRecord{
			{ID: 1, Kind: PartKindInHouse, Name: "Charger", Price: 10.99, Stock: 100, Min: 1, Max: 1000, MachineID: machine(1)},
			{ID: 2, Kind: PartKindInHouse, Name: "Cable", Price: 4.99, Stock: 500, Min: 0, Max: 999, MachineID: machine(2)},
		},
		Products: []ProductRecord{
			{ID: 1, Name: "Router", Price: 199.99, Stock: 4, Min: 1, Max: 10, PartIDs: []int{}},
			{ID: 2, Name: "Computer", Price: 599.99, Stock: 15, Min: 1, Max: 15, PartIDs: []int{}},
		},
		LastPartID:    2,
		LastProductID: 2,
	}
}
