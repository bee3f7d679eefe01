package fruits

// Transform projects each document onto its name, keeping input order.
func Transform(documents []Document) []Fruit {
	results := make([]Fruit, len(documents))
	for i, document := range documents {
		results[i] = Fruit{Name: document.Name}
	}
	return results
}
