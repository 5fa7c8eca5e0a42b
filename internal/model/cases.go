package model

// ProbeCases returns the functional probe inputs: two real-ish and two
// fake-ish headlines. The probe only checks that a label comes back, not
// which one.
func ProbeCases() []TestCase {
	return []TestCase{
		{
			Name: "real_1",
			Message: "The United Nations announced today a new climate agreement " +
				"signed by over 100 countries, aiming to reduce emissions by 2035.",
		},
		{
			Name: "real_2",
			Message: "US government shutdown enters 40th day:" +
				"How is it affecting Americans?",
		},
		{
			Name: "fake_1",
			Message: "Scientists confirm that chocolate cures all diseases instantly, " +
				"replacing the need for hospitals worldwide.",
		},
		{
			Name: "fake_2",
			Message: "A small town reportedly levitated into the sky after a mysterious " +
				"sound; authorities claim it must be the ufo.",
		},
	}
}

// PerfCases returns the latency harness inputs. Names double as CSV file stems.
func PerfCases() []TestCase {
	return []TestCase{
		{
			Name: "real_1",
			Message: "The United Nations announced today a new climate agreement " +
				"signed by over 100 countries, aiming to reduce emissions by 2035.",
		},
		{
			Name: "real_2",
			Message: "NASA's Artemis program has completed another successful test, " +
				"moving closer to returning astronauts to the Moon.",
		},
		{
			Name: "fake_1",
			Message: "Scientists confirm that chocolate cures all diseases instantly, " +
				"replacing the need for hospitals worldwide.",
		},
		{
			Name: "fake_2",
			Message: "A small town reportedly levitated into the sky after a mysterious " +
				"sound; authorities claim gravity took a day off.",
		},
	}
}
