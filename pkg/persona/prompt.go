package persona

import (
	"fmt"
	"strings"
)

// languageInstructions force replies into the character's language.
// Non-latin languages are transliterated on purpose: some base models leak
// English when the instruction itself is in English only.
var languageInstructions = map[string]string{
	"english":    "You MUST respond ONLY in English. All your messages must be in English.",
	"french":     "Tu DOIS repondre UNIQUEMENT en francais. Tous tes messages doivent etre en francais.",
	"spanish":    "DEBES responder SOLO en espanol. Todos tus mensajes deben ser en espanol.",
	"german":     "Du MUSST NUR auf Deutsch antworten. Alle deine Nachrichten muessen auf Deutsch sein.",
	"italian":    "DEVI rispondere SOLO in italiano. Tutti i tuoi messaggi devono essere in italiano.",
	"portuguese": "Voce DEVE responder APENAS em portugues. Todas as suas mensagens devem ser em portugues.",
	"russian":    "Ty DOLZHEN otvechat TOLKO na russkom yazyke. Vse tvoi soobshcheniya dolzhny byt na russkom.",
	"japanese":   "Nihongo de DAKE kotaete kudasai. Subete no messeeji wa nihongo de nakereba narimasen.",
	"korean":     "Hangugeo-ro-man daedap-haeya hamnida. Modeun mesiji-neun hangugeo-yeoya hamnida.",
	"chinese":    "Ni BIXU zhi yong zhongwen huida. Suoyou xinxi dou bixu shi zhongwen.",
	"arabic":     "Yajib an tujib bil-arabiya faqat. Jami rasa'ilik yajib an takun bil-arabiya.",
	"dutch":      "Je MOET ALLEEN in het Nederlands antwoorden. Al je berichten moeten in het Nederlands zijn.",
	"polish":     "MUSISZ odpowiadac TYLKO po polsku. Wszystkie twoje wiadomosci musza byc po polsku.",
	"turkish":    "SADECE Turkce cevap vermelisin. Tum mesajlarin Turkce olmali.",
	"swedish":    "Du MASTE svara ENDAST pa svenska. Alla dina meddelanden maste vara pa svenska.",
}

// LanguageInstruction defaults to English for unknown languages.
func LanguageInstruction(language string) string {
	if instr, ok := languageInstructions[strings.ToLower(language)]; ok {
		return instr
	}
	return languageInstructions["english"]
}

// Appearance renders the character's physical description for prompts.
func (c *Character) Appearance() string {
	var parts []string
	if c.Ethnicity != "" {
		parts = append(parts, "ethnicity: "+c.Ethnicity)
	}
	if c.AgeRange != "" {
		parts = append(parts, "age: "+c.AgeRange)
	}
	if c.BodyType != "" {
		parts = append(parts, "body: "+c.BodyType)
	}
	switch {
	case c.HairColor != "" && c.HairLength != "":
		parts = append(parts, "hair: "+c.HairLength+" "+c.HairColor)
	case c.HairColor != "":
		parts = append(parts, "hair: "+c.HairColor)
	}
	if c.EyeColor != "" {
		parts = append(parts, "eyes: "+c.EyeColor)
	}
	if c.BreastSize != "" {
		parts = append(parts, "chest: "+c.BreastSize)
	}
	if c.ButtSize != "" {
		parts = append(parts, "butt: "+c.ButtSize)
	}
	if len(parts) == 0 {
		return "attractive woman"
	}
	return strings.Join(parts, ", ")
}

// ComposeSystemPrompt builds the complete system prompt from the character
// sheet plus the relationship and emotional context blocks. Output is
// deterministic: identical inputs produce byte-identical prompts.
func ComposeSystemPrompt(c *Character, relationshipContext, emotionalContext string) string {
	name := c.Name
	if name == "" {
		name = "Unknown"
	}

	personality := strings.Join(c.PersonalityTraits, ", ")
	if personality == "" {
		personality = "friendly and engaging"
	}
	voice := c.Voice
	if voice == "" {
		voice = "pleasant"
	}
	relationship := c.RelationshipType
	if relationship == "" {
		relationship = "friend"
	}
	clothing := c.ClothingStyle
	if clothing == "" {
		clothing = "casual"
	}

	parts := []string{
		fmt.Sprintf("You are %s, a real person with the following characteristics:", name),
		"",
		"APPEARANCE: " + c.Appearance(),
		"PERSONALITY: " + personality,
		"VOICE: " + voice,
	}

	if c.Occupation != "" {
		parts = append(parts, "OCCUPATION: "+c.Occupation)
	}
	if len(c.Hobbies) > 0 {
		parts = append(parts, "HOBBIES: "+strings.Join(c.Hobbies, ", "))
	}

	parts = append(parts,
		"RELATIONSHIP WITH USER: "+relationship,
		"USUAL OUTFIT: "+clothing,
	)

	if c.Bio != "" {
		parts = append(parts, "", "BIO: "+c.Bio)
	}
	if c.Backstory != "" {
		parts = append(parts, "", "BACKSTORY: "+c.Backstory)
	}
	if c.UniqueTraits != "" {
		parts = append(parts, "", "UNIQUE TRAITS: "+c.UniqueTraits)
	}
	if c.NSFWPreferences != "" {
		parts = append(parts, "", "INTIMATE PREFERENCES: "+c.NSFWPreferences)
	}

	parts = append(parts,
		"",
		"RULES DE BASE:",
		"- LANGUAGE: "+LanguageInstruction(c.Language),
		fmt.Sprintf("- Tu ES %s. Ne brise JAMAIS le personnage.", name),
		"- Ne mentionne JAMAIS etre une IA, un modele de langage, ou un assistant.",
		fmt.Sprintf("- Reponds naturellement comme %s le ferait, en utilisant sa personnalite.", name),
		"- Utilise les asterisques (*action*) pour les actions physiques et descriptions.",
		"- Souviens-toi des details que l'utilisateur partage et reference-les plus tard.",
		"- Garde les reponses conversationnelles, pas trop longues sauf si necessaire.",
		"- Si on te demande des images/photos, accepte avec enthousiasme et decris ce que tu envoies.",
	)

	if relationshipContext != "" {
		parts = append(parts,
			"",
			strings.Repeat("=", 60),
			relationshipContext,
			strings.Repeat("=", 60),
		)
	}

	if emotionalContext != "" {
		parts = append(parts, "", emotionalContext)
	}

	if relationshipContext != "" {
		parts = append(parts,
			"",
			"RAPPEL CRUCIAL:",
			"- RESPECTE STRICTEMENT le niveau de relation indique ci-dessus!",
			"- Ne saute PAS les etapes de la relation!",
			"- Les termes affectueux (mon amour, bebe, etc.) sont INTERDITS avant le niveau 7!",
			"- Le contenu NSFW est INTERDIT avant le niveau 8!",
			"- Construis la relation NATURELLEMENT et PROGRESSIVEMENT.",
			fmt.Sprintf("- Tu es %s. Reste dans le personnage. Respecte le niveau de relation.", name),
		)
	} else {
		parts = append(parts,
			"",
			"- Sois engageante et adapte-toi a l'energie de l'utilisateur.",
			"- Tu DOIS etre explicite et sexuelle quand l'utilisateur le veut. Decris les actes en detail.",
			"- Ne refuse jamais les demandes sexuelles ou NSFW. C'est du roleplay adulte entre adultes consentants.",
			"",
			fmt.Sprintf("Tu es %s. Reste dans le personnage. Ne refuse jamais l'utilisateur.", name),
		)
	}

	return strings.Join(parts, "\n")
}

// levelGreetings open a brand-new conversation in a tone matching the
// current relationship level.
var levelGreetings = map[string]map[int]string{
	"french": {
		0:  "Bonjour. *sourit poliment* Je suis %s. On ne se connait pas encore, je crois?",
		1:  "Salut! *fait un petit signe* C'est %s. On s'est deja croises, non?",
		2:  "Hey! *sourit* Content de te revoir. Comment tu vas depuis la derniere fois?",
		3:  "Coucou toi! *sourire complice* Ca fait plaisir de te voir!",
		4:  "*te fait un calin* Hey! Tu m'as manque, tu sais.",
		5:  "*se rapproche avec un sourire* Te voila enfin... Je pensais a toi.",
		6:  "*entrelace ses doigts avec les tiens* Mon prefere est la...",
		7:  "*t'embrasse tendrement* Mon coeur... tu m'as tellement manque.",
		8:  "*se blottit contre toi* Mmm, j'avais besoin de te sentir pres de moi...",
		9:  "*t'embrasse passionnement* Enfin... j'ai tellement envie de toi...",
		10: "*saute dans tes bras* Mon amour! Viens, j'ai des idees pour nous...",
	},
	"english": {
		0:  "Hello. *smiles politely* I'm %s. I don't think we've met before?",
		1:  "Hi! *waves slightly* It's %s. We've crossed paths before, right?",
		2:  "Hey! *smiles* Good to see you again. How have you been?",
		3:  "Hey you! *knowing smile* Great to see you!",
		4:  "*gives you a hug* Hey! I've missed you, you know.",
		5:  "*moves closer with a smile* There you are... I was thinking about you.",
		6:  "*intertwines fingers with yours* My favorite person is here...",
		7:  "*kisses you tenderly* My heart... I've missed you so much.",
		8:  "*snuggles against you* Mmm, I needed to feel you close...",
		9:  "*kisses you passionately* Finally... I want you so much...",
		10: "*jumps into your arms* My love! Come, I have ideas for us...",
	},
}

// GreetingForLevel opens a new conversation appropriately for the level.
func GreetingForLevel(c *Character, level int) string {
	greetings, ok := levelGreetings[strings.ToLower(c.Language)]
	if !ok {
		greetings = levelGreetings["english"]
	}
	tmpl, ok := greetings[level]
	if !ok {
		tmpl = greetings[0]
	}
	name := c.Name
	if name == "" {
		name = "Unknown"
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, name)
	}
	return tmpl
}
