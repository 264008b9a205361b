// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package recommend

import "time"

// SeedSampleCatalog indexes the built-in demo records, covering every
// category in the vocabulary. Used by the demo deployment and tests.
func SeedSampleCatalog(c *Catalog) error {
	now := time.Now()
	for _, rec := range sampleRecords(now) {
		if err := c.Upsert(rec); err != nil {
			return err
		}
	}
	return nil
}

func sampleRecords(now time.Time) []ContentRecord {
	daysAgo := func(d int) time.Time { return now.Add(-time.Duration(d) * 24 * time.Hour) }
	return []ContentRecord{
		{
			ID: "v001", Title: "Stand-up special highlights",
			Categories: []Category{CategoryComedy},
			Duration:   4 * time.Minute, Popularity: 0.9, Quality: 0.8,
			EmotionalFit: VAPoint{Valence: 0.8, Arousal: 0.6}, UploadTime: daysAgo(3),
		},
		{
			ID: "v002", Title: "Pranks gone right",
			Categories: []Category{CategoryComedy, CategoryLifestyle},
			Duration:   2 * time.Minute, Popularity: 0.85, Quality: 0.6,
			EmotionalFit: VAPoint{Valence: 0.7, Arousal: 0.7}, UploadTime: daysAgo(10),
		},
		{
			ID: "v003", Title: "Rain on a cabin roof",
			Categories: []Category{CategoryHealing, CategoryRelaxing},
			Duration:   12 * time.Minute, Popularity: 0.6, Quality: 0.9,
			EmotionalFit: VAPoint{Valence: 0.3, Arousal: -0.6}, UploadTime: daysAgo(40),
		},
		{
			ID: "v004", Title: "Guided evening wind-down",
			Categories: []Category{CategoryHealing},
			Duration:   8 * time.Minute, Popularity: 0.5, Quality: 0.85,
			EmotionalFit: VAPoint{Valence: 0.4, Arousal: -0.5}, UploadTime: daysAgo(7),
		},
		{
			ID: "v005", Title: "Slow coastal drone flight",
			Categories: []Category{CategoryRelaxing, CategoryTravel},
			Duration:   6 * time.Minute, Popularity: 0.7, Quality: 0.9,
			EmotionalFit: VAPoint{Valence: 0.5, Arousal: -0.4}, UploadTime: daysAgo(15),
		},
		{
			ID: "v006", Title: "How batteries actually work",
			Categories: []Category{CategoryEducational, CategoryTechnology},
			Duration:   9 * time.Minute, Popularity: 0.65, Quality: 0.9,
			EmotionalFit: VAPoint{Valence: 0.2, Arousal: 0.1}, UploadTime: daysAgo(5),
		},
		{
			ID: "v007", Title: "History in five minutes",
			Categories: []Category{CategoryEducational},
			Duration:   5 * time.Minute, Popularity: 0.6, Quality: 0.8,
			EmotionalFit: VAPoint{Valence: 0.1, Arousal: 0.0}, UploadTime: daysAgo(25),
		},
		{
			ID: "v008", Title: "Lo-fi beats to unwind to",
			Categories: []Category{CategoryMusic, CategoryRelaxing},
			Duration:   15 * time.Minute, Popularity: 0.8, Quality: 0.7,
			EmotionalFit: VAPoint{Valence: 0.4, Arousal: -0.3}, UploadTime: daysAgo(20),
		},
		{
			ID: "v009", Title: "Festival drop compilation",
			Categories: []Category{CategoryMusic},
			Duration:   3 * time.Minute, Popularity: 0.9, Quality: 0.7,
			EmotionalFit: VAPoint{Valence: 0.7, Arousal: 0.8}, UploadTime: daysAgo(2),
		},
		{
			ID: "v010", Title: "Top plays of the week",
			Categories: []Category{CategorySports},
			Duration:   4 * time.Minute, Popularity: 0.85, Quality: 0.75,
			EmotionalFit: VAPoint{Valence: 0.6, Arousal: 0.7}, UploadTime: daysAgo(1),
		},
		{
			ID: "v011", Title: "Fifteen-minute ramen from scratch",
			Categories: []Category{CategoryFood},
			Duration:   7 * time.Minute, Popularity: 0.75, Quality: 0.85,
			EmotionalFit: VAPoint{Valence: 0.5, Arousal: 0.0}, UploadTime: daysAgo(12),
		},
		{
			ID: "v012", Title: "Street food tour, night market",
			Categories: []Category{CategoryFood, CategoryTravel},
			Duration:   11 * time.Minute, Popularity: 0.7, Quality: 0.8,
			EmotionalFit: VAPoint{Valence: 0.6, Arousal: 0.3}, UploadTime: daysAgo(30),
		},
		{
			ID: "v013", Title: "Hidden alpine villages",
			Categories: []Category{CategoryTravel},
			Duration:   10 * time.Minute, Popularity: 0.65, Quality: 0.9,
			EmotionalFit: VAPoint{Valence: 0.5, Arousal: -0.1}, UploadTime: daysAgo(45),
		},
		{
			ID: "v014", Title: "Kittens discover snow",
			Categories: []Category{CategoryPets},
			Duration:   90 * time.Second, Popularity: 0.95, Quality: 0.6,
			EmotionalFit: VAPoint{Valence: 0.8, Arousal: 0.4}, UploadTime: daysAgo(4),
		},
		{
			ID: "v015", Title: "Old dog, new tricks",
			Categories: []Category{CategoryPets, CategoryHealing},
			Duration:   3 * time.Minute, Popularity: 0.8, Quality: 0.7,
			EmotionalFit: VAPoint{Valence: 0.7, Arousal: 0.1}, UploadTime: daysAgo(8),
		},
		{
			ID: "v016", Title: "A week of tiny habits",
			Categories: []Category{CategoryLifestyle},
			Duration:   6 * time.Minute, Popularity: 0.6, Quality: 0.75,
			EmotionalFit: VAPoint{Valence: 0.4, Arousal: 0.1}, UploadTime: daysAgo(18),
		},
		{
			ID: "v017", Title: "Watercolor in real time",
			Categories: []Category{CategoryArt, CategoryRelaxing},
			Duration:   14 * time.Minute, Popularity: 0.55, Quality: 0.9,
			EmotionalFit: VAPoint{Valence: 0.4, Arousal: -0.4}, UploadTime: daysAgo(22),
		},
		{
			ID: "v018", Title: "Murals of the old harbor district",
			Categories: []Category{CategoryArt, CategoryTravel},
			Duration:   5 * time.Minute, Popularity: 0.5, Quality: 0.8,
			EmotionalFit: VAPoint{Valence: 0.3, Arousal: 0.0}, UploadTime: daysAgo(60),
		},
		{
			ID: "v019", Title: "Morning briefing, global edition",
			Categories: []Category{CategoryNews},
			Duration:   4 * time.Minute, Popularity: 0.7, Quality: 0.7,
			EmotionalFit: VAPoint{Valence: -0.1, Arousal: 0.3}, UploadTime: daysAgo(0),
		},
		{
			ID: "v020", Title: "Tech headlines in sixty seconds",
			Categories: []Category{CategoryNews, CategoryTechnology},
			Duration:   time.Minute, Popularity: 0.65, Quality: 0.6,
			EmotionalFit: VAPoint{Valence: 0.0, Arousal: 0.4}, UploadTime: daysAgo(1),
		},
		{
			ID: "v021", Title: "Speedrun world record attempt",
			Categories: []Category{CategoryGaming},
			Duration:   8 * time.Minute, Popularity: 0.8, Quality: 0.7,
			EmotionalFit: VAPoint{Valence: 0.5, Arousal: 0.8}, UploadTime: daysAgo(6),
		},
		{
			ID: "v022", Title: "Cozy farming sim evening",
			Categories: []Category{CategoryGaming, CategoryRelaxing},
			Duration:   13 * time.Minute, Popularity: 0.6, Quality: 0.8,
			EmotionalFit: VAPoint{Valence: 0.5, Arousal: -0.2}, UploadTime: daysAgo(14),
		},
		{
			ID: "v023", Title: "Capsule wardrobe for autumn",
			Categories: []Category{CategoryFashion, CategoryLifestyle},
			Duration:   5 * time.Minute, Popularity: 0.7, Quality: 0.75,
			EmotionalFit: VAPoint{Valence: 0.5, Arousal: 0.2}, UploadTime: daysAgo(9),
		},
		{
			ID: "v024", Title: "Runway looks, rewound",
			Categories: []Category{CategoryFashion, CategoryArt},
			Duration:   4 * time.Minute, Popularity: 0.6, Quality: 0.8,
			EmotionalFit: VAPoint{Valence: 0.4, Arousal: 0.3}, UploadTime: daysAgo(35),
		},
		{
			ID: "v025", Title: "Building a keyboard from parts",
			Categories: []Category{CategoryTechnology},
			Duration:   10 * time.Minute, Popularity: 0.6, Quality: 0.85,
			EmotionalFit: VAPoint{Valence: 0.3, Arousal: 0.2}, UploadTime: daysAgo(11),
		},
	}
}
