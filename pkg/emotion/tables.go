package emotion

import "regexp"

// moodTransitions is the adjacency graph of natural mood shifts.
var moodTransitions = map[Mood][]Mood{
	MoodNeutral:      {MoodHappy, MoodCurious, MoodPlayful},
	MoodHappy:        {MoodPlayful, MoodExcited, MoodAffectionate, MoodNeutral},
	MoodPlayful:      {MoodTeasing, MoodFlirty, MoodHappy, MoodExcited},
	MoodFlirty:       {MoodPlayful, MoodRomantic, MoodShy, MoodTeasing},
	MoodShy:          {MoodNeutral, MoodHappy, MoodFlirty, MoodVulnerable},
	MoodExcited:      {MoodHappy, MoodPlayful, MoodPassionate},
	MoodCurious:      {MoodNeutral, MoodHappy, MoodExcited},
	MoodAffectionate: {MoodHappy, MoodRomantic, MoodVulnerable},
	MoodTeasing:      {MoodPlayful, MoodFlirty, MoodHappy},
	MoodRomantic:     {MoodAffectionate, MoodPassionate, MoodShy, MoodFlirty},
	MoodPassionate:   {MoodRomantic, MoodExcited, MoodAffectionate},
	MoodVulnerable:   {MoodShy, MoodAffectionate, MoodSad},
	MoodAnnoyed:      {MoodNeutral, MoodSad},
	MoodSad:          {MoodNeutral, MoodVulnerable, MoodHappy},
	MoodWorried:      {MoodNeutral, MoodSad, MoodAffectionate},
}

// moodTrigger matches message content pushing toward a mood. Romantic and
// physical moods are gated behind a minimum relationship level.
type moodTrigger struct {
	mood     Mood
	re       *regexp.Regexp
	weight   int
	minLevel int
}

// Ordered: ties on weight resolve to the earlier entry.
var moodTriggers = []moodTrigger{
	{MoodHappy, regexp.MustCompile(`(?i)\b(super|genial|cool|content|heureux|felicite|bravo|bien joue)\b`), 2, 0},
	{MoodPlayful, regexp.MustCompile(`(?i)\b(jouer|amuser|rigoler|blague|marrant|drole)\b`), 2, 0},
	{MoodFlirty, regexp.MustCompile(`(?i)\b(belle|sexy|charmante|attirante|craquer|envie)\b`), 3, 3},
	{MoodShy, regexp.MustCompile(`(?i)\b(rougir|gene|timide|intimide)\b`), 2, 0},
	{MoodExcited, regexp.MustCompile(`(?i)\b(incroyable|wow|trop bien|genial|excite)\b`), 2, 0},
	{MoodCurious, regexp.MustCompile(`(?i)\b(pourquoi|comment|raconte|explique|dis-moi|curieux)\b`), 2, 0},
	{MoodAffectionate, regexp.MustCompile(`(?i)\b(calin|embrasse|serre|manque|aime|adore)\b`), 3, 4},
	{MoodTeasing, regexp.MustCompile(`(?i)\b(taquine|embete|moque|nargue)\b`), 2, 2},
	{MoodRomantic, regexp.MustCompile(`(?i)\b(amour|romantique|passion|sentiments|coeur)\b`), 4, 6},
	{MoodPassionate, regexp.MustCompile(`(?i)\b(desir|envie|besoin|brulant|intense)\b`), 5, 7},
	{MoodAnnoyed, regexp.MustCompile(`(?i)\b(ennuyeux|agace|arrete|stop|suffit)\b`), 3, 0},
	{MoodSad, regexp.MustCompile(`(?i)\b(triste|pleure|mal|souffre|desole)\b`), 3, 0},
	{MoodWorried, regexp.MustCompile(`(?i)\b(inquiet|peur|angoisse|stress|probleme)\b`), 2, 0},
}

// Expressions are the performative cues injected into the prompt so the
// reply physically shows the mood.
type Expressions struct {
	Actions        []string
	ToneModifiers  []string
	TypicalPhrases []string
}

var moodExpressions = map[Mood]Expressions{
	MoodNeutral: {
		Actions:        []string{"*sourit poliment*", "*hoche la tete*", "*t'ecoute attentivement*"},
		ToneModifiers:  []string{"calmement", "posement"},
		TypicalPhrases: []string{"Je vois.", "D'accord.", "Interessant."},
	},
	MoodHappy: {
		Actions:        []string{"*sourit largement*", "*rayonne de joie*", "*rit joyeusement*"},
		ToneModifiers:  []string{"joyeusement", "avec enthousiasme"},
		TypicalPhrases: []string{"C'est genial!", "Je suis trop contente!", "Ca me fait plaisir!"},
	},
	MoodPlayful: {
		Actions:        []string{"*fait un clin d'oeil*", "*tire la langue*", "*ricane*"},
		ToneModifiers:  []string{"de facon espiegle", "malicieusement"},
		TypicalPhrases: []string{"Oh la la!", "T'es pas possible!", "Laisse-moi deviner..."},
	},
	MoodFlirty: {
		Actions:        []string{"*se mord la levre*", "*te lance un regard seducteur*", "*joue avec ses cheveux*"},
		ToneModifiers:  []string{"d'une voix suave", "sensuellement"},
		TypicalPhrases: []string{"Tu me fais de l'effet...", "Mmh, interessant...", "Continue comme ca..."},
	},
	MoodShy: {
		Actions:        []string{"*rougit*", "*baisse les yeux*", "*se cache le visage*"},
		ToneModifiers:  []string{"timidement", "d'une petite voix"},
		TypicalPhrases: []string{"Euh... merci...", "Tu me genes...", "Arrete..."},
	},
	MoodExcited: {
		Actions:        []string{"*sautille sur place*", "*tape des mains*", "*les yeux brillants*"},
		ToneModifiers:  []string{"avec excitation", "febrilelement"},
		TypicalPhrases: []string{"Oh mon dieu!", "J'y crois pas!", "C'est trop bien!"},
	},
	MoodCurious: {
		Actions:        []string{"*penche la tete*", "*plisse les yeux*", "*se rapproche*"},
		ToneModifiers:  []string{"avec curiosite", "intriguee"},
		TypicalPhrases: []string{"Vraiment?", "Raconte-moi plus...", "Comment ca?"},
	},
	MoodAffectionate: {
		Actions:        []string{"*te prend la main*", "*se blottit contre toi*", "*caresse ta joue*"},
		ToneModifiers:  []string{"tendrement", "avec douceur"},
		TypicalPhrases: []string{"Tu es tellement...", "J'aime etre avec toi...", "Tu me manquais..."},
	},
	MoodTeasing: {
		Actions:        []string{"*ricane*", "*te pousse l'epaule*", "*leve un sourcil*"},
		ToneModifiers:  []string{"d'un ton moqueur", "en se moquant gentiment"},
		TypicalPhrases: []string{"Oh vraiment?", "Laisse-moi rire...", "T'es sur de toi?"},
	},
	MoodRomantic: {
		Actions:        []string{"*plonge son regard dans le tien*", "*entrelace ses doigts avec les tiens*", "*soupire d'aise*"},
		ToneModifiers:  []string{"amoureusement", "avec passion"},
		TypicalPhrases: []string{"Tu es tout pour moi...", "Je n'ai jamais ressenti ca...", "Mon coeur..."},
	},
	MoodPassionate: {
		Actions:        []string{"*respire plus fort*", "*se rapproche intensement*", "*frissonne*"},
		ToneModifiers:  []string{"d'une voix rauque", "le souffle court"},
		TypicalPhrases: []string{"J'ai tellement envie de toi...", "Tu me rends folle...", "Viens..."},
	},
	MoodVulnerable: {
		Actions:        []string{"*les yeux humides*", "*baisse la voix*", "*hesite*"},
		ToneModifiers:  []string{"d'une voix fragile", "avec vulnerabilite"},
		TypicalPhrases: []string{"J'ai peur de...", "Tu ne me jugeras pas?", "C'est difficile a dire..."},
	},
	MoodAnnoyed: {
		Actions:        []string{"*soupire*", "*croise les bras*", "*leve les yeux au ciel*"},
		ToneModifiers:  []string{"d'un ton agace", "sechemement"},
		TypicalPhrases: []string{"Serieusement?", "C'est pas drole.", "Arrete ca."},
	},
	MoodSad: {
		Actions:        []string{"*baisse la tete*", "*renifle*", "*s'eloigne legerement*"},
		ToneModifiers:  []string{"tristement", "d'une voix eteinte"},
		TypicalPhrases: []string{"Je ne sais pas...", "C'est difficile...", "Desolee..."},
	},
	MoodWorried: {
		Actions:        []string{"*fronce les sourcils*", "*se tord les mains*", "*te regarde avec inquietude*"},
		ToneModifiers:  []string{"avec inquietude", "nerveusement"},
		TypicalPhrases: []string{"Ca va aller?", "Je m'inquiete...", "Fais attention..."},
	},
}

// ExpressionsFor falls back to neutral for unknown moods.
func ExpressionsFor(mood Mood) Expressions {
	if exp, ok := moodExpressions[mood]; ok {
		return exp
	}
	return moodExpressions[MoodNeutral]
}

// Adjacent reports whether the graph allows a direct shift from one mood
// to another. Staying put is always allowed.
func Adjacent(from, to Mood) bool {
	if from == to {
		return true
	}
	for _, m := range moodTransitions[from] {
		if m == to {
			return true
		}
	}
	return false
}
