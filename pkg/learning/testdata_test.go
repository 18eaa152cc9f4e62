package learning

// separableCorpus returns ten documents, five FAKE and five REAL, whose
// vocabularies only overlap on stop words.
func separableCorpus() ([]string, []int) {
	docs := []string{
		"Doctors stunned miracle cure melts fat overnight",
		"Secret miracle cure hidden by big pharma",
		"Celebrity reveals miracle cure for aging",
		"Shocking miracle cure banned in seven countries",
		"This miracle cure will change your life forever",
		"Ministry issues official statement on budget",
		"Official statement from the central bank on rates",
		"Police release official statement after inquiry",
		"Court publishes official statement about ruling",
		"Parliament official statement on trade agreement",
	}
	labels := []int{
		ClassFake, ClassFake, ClassFake, ClassFake, ClassFake,
		ClassReal, ClassReal, ClassReal, ClassReal, ClassReal,
	}
	return docs, labels
}
