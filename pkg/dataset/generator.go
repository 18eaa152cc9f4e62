package dataset

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/veritas/news-classifier/pkg/learning"
)

// Generator produces synthetic labelled news articles
type Generator struct {
	rand  *rand.Rand
	title cases.Caser

	fakeHeadlines []string
	realHeadlines []string
	fakeBodies    []string
	realBodies    []string
	fakeAuthors   []string
	realAuthors   []string
	topics        []string
	officials     []string
	places        []string
	sensational   []string
}

// NewGenerator creates a generator; equal seeds give equal corpora
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rand:  rand.New(rand.NewSource(seed)),
		title: cases.Title(language.English),

		fakeHeadlines: []string{
			"SHOCKING: Doctors Hate This Miracle Cure for %s",
			"You Won't Believe What %s Is Hiding",
			"EXPOSED: The Secret Plot Behind %s",
			"Scientists Silenced After %s Discovery",
			"BREAKING: %s Banned Overnight, Media Stays Quiet",
			"This One Trick About %s Will Change Your Life",
			"Insiders Reveal the Truth About %s",
			"Leaked Memo Proves %s Was a Hoax",
		},

		realHeadlines: []string{
			"%s Publishes Quarterly Report",
			"Officials Announce New Measures on %s",
			"Committee Reviews Proposal on %s",
			"%s Figures Released for Last Quarter",
			"Parliament Debates Changes to %s",
			"Survey Finds Modest Shift in %s",
			"Agency Issues Official Statement on %s",
			"Court Hears Arguments Over %s",
		},

		fakeBodies: []string{
			"Anonymous sources claim that %s has been covered up for years. Share this before they delete it! The mainstream media refuses to report the shocking truth about %s.",
			"A miracle cure linked to %s is being suppressed by big pharma. Thousands of people are waking up to the hidden agenda, and insiders say %s is only the beginning.",
			"Secret documents allegedly show that %s was staged. Experts who spoke out were silenced, and the cover-up around %s goes all the way to the top.",
			"Viral posts warn that %s will be banned within days. Nobody is talking about it, but the real story behind %s is unbelievable.",
		},

		realBodies: []string{
			"According to an official statement released on Tuesday, %s officials confirmed that the review of %s will continue through the next fiscal year.",
			"The ministry said in a statement that data on %s would be published in full. A spokesperson for %s declined to comment further pending the report.",
			"Lawmakers met with representatives from %s to discuss the budget. The committee is expected to vote on %s later this month, the agency said.",
			"Figures published by the statistics office show a gradual change in %s. Analysts at %s said the trend was in line with earlier forecasts.",
		},

		fakeAuthors: []string{
			"Truth Seeker", "Anonymous Patriot", "Staff Writer", "Alex Freedom",
			"The Insider", "Real News Now", "Awake Citizen", "",
		},

		realAuthors: []string{
			"Jane Doe", "Mike Johnson", "Sarah Wilson", "David Brown",
			"Lisa Garcia", "Robert Miller", "Emily Davis", "Michael Anderson",
		},

		topics: []string{
			"vaccines", "the election", "climate policy", "interest rates",
			"the housing market", "public health", "trade agreements", "energy prices",
			"school funding", "immigration", "tax reform", "space exploration",
		},

		officials: []string{
			"the Ministry of Finance", "the central bank", "the health department",
			"the electoral commission", "the city council", "the statistics office",
		},

		places: []string{
			"Washington", "London", "Brussels", "Ottawa", "Canberra", "Berlin",
		},

		sensational: []string{
			"share before deleted", "wake up", "they don't want you to know",
			"100% proof", "must see", "hidden truth",
		},
	}
}

// Generate returns n examples with fakeRatio of them labelled FAKE, shuffled
func (g *Generator) Generate(n int, fakeRatio float64) ([]Example, error) {
	if n <= 0 {
		return nil, fmt.Errorf("count must be greater than 0")
	}
	if fakeRatio < 0 || fakeRatio > 1 {
		return nil, fmt.Errorf("fake ratio must be between 0 and 1")
	}

	fakeCount := int(float64(n) * fakeRatio)
	examples := make([]Example, 0, n)
	for i := 0; i < fakeCount; i++ {
		examples = append(examples, g.GenerateFake())
	}
	for i := fakeCount; i < n; i++ {
		examples = append(examples, g.GenerateReal())
	}

	g.rand.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
	return examples, nil
}

// GenerateFake produces a sensational, poorly sourced article
func (g *Generator) GenerateFake() Example {
	topic := g.randomChoice(g.topics)
	title := fmt.Sprintf(g.randomChoice(g.fakeHeadlines), g.title.String(topic))
	body := fmt.Sprintf(g.randomChoice(g.fakeBodies), topic, topic)

	title = g.addSensationalism(title)
	if g.rand.Float64() < 0.5 {
		body += " " + strings.ToUpper(g.randomChoice(g.sensational)) + "!!!"
	}

	return Example{
		Title:  title,
		Author: g.randomChoice(g.fakeAuthors),
		Text:   body,
		Label:  learning.ClassFake,
	}
}

// GenerateReal produces a sober, attributed article
func (g *Generator) GenerateReal() Example {
	topic := g.randomChoice(g.topics)
	official := g.randomChoice(g.officials)
	title := fmt.Sprintf(g.randomChoice(g.realHeadlines), g.title.String(topic))
	body := fmt.Sprintf(g.randomChoice(g.realBodies), official, topic)
	body = g.randomChoice(g.places) + " - " + body

	return Example{
		Title:  title,
		Author: g.randomChoice(g.realAuthors),
		Text:   body,
		Label:  learning.ClassReal,
	}
}

// addSensationalism adds typical clickbait characteristics
func (g *Generator) addSensationalism(title string) string {
	if g.rand.Float64() < 0.6 {
		title += "!!!"
	}

	if g.rand.Float64() < 0.3 {
		title = strings.ToUpper(title)
	}

	return title
}

// randomChoice selects a random item from slice
func (g *Generator) randomChoice(items []string) string {
	return items[g.rand.Intn(len(items))]
}
