package venuereviews

import (
	"math"

	"habitat/internal/sentiment"
)

// MeanRating is the arithmetic mean rounded to one decimal, or 0 for no ratings.
func MeanRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}

// GeneralSentiment is a majority vote of positive against negative reviews.
// Ties are Neutral.
func GeneralSentiment(positive, negative int) sentiment.Label {
	switch {
	case positive > negative:
		return sentiment.Positive
	case negative > positive:
		return sentiment.Negative
	default:
		return sentiment.Neutral
	}
}

func count(labels []sentiment.Label) (pos, neg int) {
	for _, l := range labels {
		switch l {
		case sentiment.Positive:
			pos++
		case sentiment.Negative:
			neg++
		}
	}
	return pos, neg
}

// Summarize aggregates one venue's review stats.
func Summarize(stats []Stat) Summary {
	if len(stats) == 0 {
		return Summary{GeneralSentiment: NoReviews}
	}

	ratings := make([]int, len(stats))
	labels := make([]sentiment.Label, len(stats))
	for i, s := range stats {
		ratings[i] = s.Rating
		labels[i] = s.Sentiment
	}

	return Summary{
		ComputedRating:   MeanRating(ratings),
		TotalReviews:     len(stats),
		GeneralSentiment: GeneralSentiment(count(labels)),
	}
}

// GroupByVenue summarizes stats per venue. Venues without stats are absent.
func GroupByVenue(stats []Stat) map[int64]Summary {
	grouped := make(map[int64][]Stat)
	for _, s := range stats {
		grouped[s.VenueID] = append(grouped[s.VenueID], s)
	}

	out := make(map[int64]Summary, len(grouped))
	for id, group := range grouped {
		out[id] = Summarize(group)
	}
	return out
}

// DetailSentiment labels a venue from its full reviews. No reviews is Neutral.
func DetailSentiment(reviews []Review) sentiment.Label {
	labels := make([]sentiment.Label, len(reviews))
	for i, r := range reviews {
		labels[i] = r.Sentiment
	}
	return GeneralSentiment(count(labels))
}
