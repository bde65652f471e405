package domain

import (
	"strings"

	"mindfocus/internal/platform/random"
)

type Consumable string

const (
	KindSnack       Consumable = "snack"
	KindEnergyDrink Consumable = "energy drink"
)

type Fact struct {
	Kind    Consumable `json:"kind"`
	Helpful bool       `json:"helpful"`
	Text    string     `json:"text"`
}

type QuizQuestion struct {
	Question  string `json:"question"`
	Rationale string `json:"rationale"`
}

// QuizCategory is a subject bank selected by case-insensitive keyword
// match. Categories are tried in slice order.
type QuizCategory struct {
	Name      string         `json:"name"`
	Keywords  []string       `json:"keywords"`
	Questions []QuizQuestion `json:"questions"`
}

const DefaultCategory = "default"

// Bank holds the reminder, fact and quiz tables.
type Bank struct {
	BreakReminders []string
	Facts          []Fact
	Categories     []QuizCategory
	Default        []QuizQuestion
}

func (b Bank) BreakReminder(rng random.Source) string {
	idx := random.Pick(rng, len(b.BreakReminders))
	if idx < 0 {
		return ""
	}
	return b.BreakReminders[idx]
}

// ConsumptionFact picks uniformly among facts of the given kind.
func (b Bank) ConsumptionFact(kind string, rng random.Source) string {
	matching := make([]string, 0, len(b.Facts))
	for _, f := range b.Facts {
		if string(f.Kind) == kind {
			matching = append(matching, f.Text)
		}
	}
	idx := random.Pick(rng, len(matching))
	if idx < 0 {
		return ""
	}
	return matching[idx]
}

// QuizQuestion picks a question from the bank matching subject.
func (b Bank) QuizQuestion(subject string, rng random.Source) (string, string) {
	questions := b.questionsFor(subject)
	idx := random.Pick(rng, len(questions))
	if idx < 0 {
		return "", ""
	}
	return questions[idx].Question, questions[idx].Rationale
}

// Classify returns the name of the category subject falls into.
func (b Bank) Classify(subject string) string {
	if c, ok := b.match(subject); ok {
		return c.Name
	}
	return DefaultCategory
}

func (b Bank) questionsFor(subject string) []QuizQuestion {
	if c, ok := b.match(subject); ok && len(c.Questions) > 0 {
		return c.Questions
	}
	return b.Default
}

func (b Bank) match(subject string) (QuizCategory, bool) {
	lowered := strings.ToLower(subject)
	for _, c := range b.Categories {
		for _, kw := range c.Keywords {
			if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
				return c, true
			}
		}
	}
	return QuizCategory{}, false
}

// Merge appends extra's entries to b. Categories with a known name gain the
// extra questions and keywords; unknown categories go after the built-in
// ones so built-in matching keeps priority.
func (b Bank) Merge(extra Bank) Bank {
	out := Bank{
		BreakReminders: append(append([]string{}, b.BreakReminders...), extra.BreakReminders...),
		Facts:          append(append([]Fact{}, b.Facts...), extra.Facts...),
		Default:        append(append([]QuizQuestion{}, b.Default...), extra.Default...),
		Categories:     make([]QuizCategory, 0, len(b.Categories)+len(extra.Categories)),
	}
	index := map[string]int{}
	for _, c := range b.Categories {
		index[c.Name] = len(out.Categories)
		out.Categories = append(out.Categories, QuizCategory{
			Name:      c.Name,
			Keywords:  append([]string{}, c.Keywords...),
			Questions: append([]QuizQuestion{}, c.Questions...),
		})
	}
	for _, c := range extra.Categories {
		if i, ok := index[c.Name]; ok {
			out.Categories[i].Keywords = append(out.Categories[i].Keywords, c.Keywords...)
			out.Categories[i].Questions = append(out.Categories[i].Questions, c.Questions...)
			continue
		}
		index[c.Name] = len(out.Categories)
		out.Categories = append(out.Categories, c)
	}
	return out
}

// DefaultBank returns the built-in tables.
func DefaultBank() Bank {
	return Bank{
		BreakReminders: []string{
			"Time for a 5-minute break! Stand up, stretch, and look away from your screen. Your brain consolidates information during breaks.",
			"Break time! Try the 20-20-20 rule: Look at something 20 feet away for 20 seconds to reduce eye strain.",
			"Take a quick break! Walk around for 5 minutes. Physical movement increases blood flow to the brain and improves retention by 20%.",
			"Break reminder! Grab some water and do a few stretches. Hydration is crucial for cognitive performance.",
			"Time to pause! Close your eyes and take 5 deep breaths. This reduces cortisol and improves focus for the next session.",
		},
		Facts: []Fact{
			{Kind: KindSnack, Helpful: true, Text: "Light snacks like nuts or fruit can boost cognitive function. Keep portions small to avoid energy crashes!"},
			{Kind: KindSnack, Helpful: false, Text: "High-sugar snacks cause energy spikes and crashes. Your focus may drop in 20-30 minutes."},
			{Kind: KindEnergyDrink, Helpful: false, Text: "Energy drinks can temporarily boost alertness but may lead to jitters and reduced focus quality. Studies show they decrease retention by 15%."},
			{Kind: KindEnergyDrink, Helpful: true, Text: "Caffeine takes 30-45 minutes to peak. Moderate amounts (80-100mg) can improve focus, but avoid consuming after 2 PM for better sleep."},
		},
		Categories: []QuizCategory{
			{
				Name:     "math",
				Keywords: []string{"math", "calculus", "algebra"},
				Questions: []QuizQuestion{
					{"Can you explain the last concept you reviewed in your own words?", "Verbal recall strengthens neural pathways"},
					{"What's one real-world application of this math concept?", "Contextual learning improves retention by 40%"},
					{"If you had to teach this to a friend, what's the first thing you'd say?", "Teaching others is the most effective learning method"},
					{"What's the hardest part of this topic for you? Write it down.", "Identifying gaps helps targeted review"},
				},
			},
			{
				Name:     "science",
				Keywords: []string{"science", "physics", "chemistry", "biology"},
				Questions: []QuizQuestion{
					{"Can you draw a diagram of what you just learned?", "Visual encoding creates multiple memory pathways"},
					{"How does this concept connect to something you learned before?", "Building connections strengthens memory networks"},
					{"What question would likely appear on a test about this?", "Anticipating questions improves test performance"},
					{"Explain the 'why' behind this concept, not just the 'what'", "Deep processing leads to better retention"},
				},
			},
			{
				Name:     "history",
				Keywords: []string{"history", "social"},
				Questions: []QuizQuestion{
					{"What's the cause-and-effect relationship in what you're reading?", "Pattern recognition improves historical thinking"},
					{"How does this event relate to current events?", "Temporal connections make history memorable"},
					{"If you were there, what would you have done differently?", "Emotional engagement increases retention by 30%"},
					{"Can you create a timeline of the key events?", "Temporal organization aids recall"},
				},
			},
			{
				Name:     "english",
				Keywords: []string{"english", "literature", "reading"},
				Questions: []QuizQuestion{
					{"What's the main argument or theme you've identified so far?", "Synthesis improves comprehension"},
					{"Can you summarize the last page in one sentence?", "Compression exercises strengthen understanding"},
					{"What literary device did the author just use, and why?", "Critical analysis deepens engagement"},
					{"How does this text make you feel? Why?", "Emotional connections improve memory"},
				},
			},
		},
		Default: []QuizQuestion{
			{"What's the most important thing you've learned in the last 10 minutes?", "Active recall is the #1 study technique"},
			{"Can you explain this concept without looking at your notes?", "Testing yourself is more effective than re-reading"},
			{"What's one thing that confused you? Let's clarify it.", "Identifying confusion points prevents false confidence"},
			{"How would you apply this knowledge in a practical situation?", "Application-based thinking improves transfer"},
		},
	}
}
