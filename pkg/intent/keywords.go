package intent

import "strings"

// Keyword tables for the deterministic pass. Substring matching on the
// lowercased message, same stems for French and English.

var imageKeywords = []string{
	// fr
	"photo", "image", "selfie", "pic", "picture", "envoie", "montre", "voir", "nude", "nue",
	"déshabille", "strip", "pose", "tenue", "lingerie", "bikini", "maillot",
	// en
	"send", "show", "see", "naked", "undress", "outfit", "swimsuit",
}

var nsfwLevel3Keywords = []string{
	// French sexual acts
	"baise", "baiser", "niquer", "sucer", "suce", "fellation", "levrette", "sodomie",
	"penetr", "jouir", "ejacul", "orgasm", "chatte", "pussy", "bite", "cock", "dick",
	"queue", "branle", "masturb", "doigt", "finger", "gode", "dildo",
	// English sexual acts
	"fuck", "suck", "blowjob", "bj", "doggy", "anal", "penetrat", "cum", "creampie",
	"facial", "handjob", "titjob", "threesome", "orgy", "gangbang", "deepthroat",
	"cowgirl", "missionary", "spread", "lick", "eat out", "ride",
	// Body parts explicit
	"clitoris", "clit", "anus", "testicule", "balls", "shaft",
}

var nsfwLevel2Keywords = []string{
	"nude", "nue", "naked", "sein", "breast", "tit", "nichon", "fesse", "ass", "butt",
	"cul", "déshabill", "undress", "strip", "topless", "nu ", "nipple", "mamelon",
	"exposed", "bare", "uncovered",
}

var nsfwLevel1Keywords = []string{
	"sexy", "coquin", "naughty", "hot", "chaud", "excit", "sensuel", "seduc",
	"flirt", "tease", "aguich", "provoc", "intimate", "intime",
}

// Sexual acts that need dedicated image handling. Ordered: first match wins.
var sexualActs = []struct {
	act      string
	keywords []string
}{
	{"oral", []string{"sucer", "suce", "fellation", "blowjob", "bj", "deepthroat", "suck", "oral"}},
	{"vaginal", []string{"baise", "baiser", "fuck", "penetr", "missionary", "cowgirl", "doggy", "levrette", "ride"}},
	{"anal", []string{"sodomie", "anal"}},
	{"masturbation", []string{"branle", "masturb", "doigt", "finger", "touch"}},
	{"other", []string{"handjob", "titjob", "facial", "cum", "ejacul", "creampie", "threesome"}},
}

// Ordered: first match wins.
var emotionKeywords = []struct {
	emotion  string
	keywords []string
}{
	{"sexual", []string{"baise", "fuck", "sucer", "chaud", "excit", "envie de toi", "want you", "horny"}},
	{"romantic", []string{"aime", "love", "amour", "coeur", "heart", "miss you", "tu me manques", "tendresse"}},
	{"playful", []string{"haha", "lol", "mdr", "hihi", "joke", "blague", "rigol", "amus"}},
	{"emotional", []string{"triste", "sad", "pleure", "cry", "seul", "lonely", "mal", "hurt", "depress"}},
	{"angry", []string{"colère", "angry", "énervé", "mad", "furieux", "putain", "merde"}},
}

var frenchIndicators = []string{"je", "tu", "moi", "toi", "une", "est", "les", "des", "pour", "avec"}

var outfitKeywords = []string{
	"lingerie", "bikini", "robe", "dress", "jupe", "skirt",
	"maillot", "swimsuit", "nu", "naked", "topless",
}

var poseKeywords = []string{
	"allongée", "lying", "debout", "standing", "assise",
	"sitting", "genoux", "knees", "dos", "back", "face",
	"levrette", "doggy", "quatre pattes", "all fours",
}

var settingKeywords = []string{
	"lit", "bed", "douche", "shower", "plage", "beach",
	"chambre", "bedroom", "dehors", "outside", "ruelle",
	"alley", "voiture", "car", "public",
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func firstMatch(text string, keywords []string) string {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return kw
		}
	}
	return ""
}

// AnalyzeKeywords runs the deterministic pass. It always returns a complete
// record and serves as the fallback when the LLM pass fails.
func AnalyzeKeywords(message string) Record {
	msgLower := strings.ToLower(message)

	// Language: two or more French function words as standalone tokens.
	padded := " " + msgLower + " "
	frCount := 0
	for _, word := range frenchIndicators {
		if strings.Contains(padded, " "+word+" ") {
			frCount++
		}
	}
	language := "en"
	if frCount >= 2 {
		language = "fr"
	}

	wantsImage := containsAny(msgLower, imageKeywords)

	// A named sexual act implies the user wants an image of it.
	sexualAct := ""
	for _, group := range sexualActs {
		if containsAny(msgLower, group.keywords) {
			sexualAct = group.act
			wantsImage = true
			break
		}
	}

	nsfwLevel := 0
	switch {
	case sexualAct != "" || containsAny(msgLower, nsfwLevel3Keywords):
		nsfwLevel = 3
	case containsAny(msgLower, nsfwLevel2Keywords):
		nsfwLevel = 2
	case containsAny(msgLower, nsfwLevel1Keywords):
		nsfwLevel = 1
	}

	emotion := "casual"
	if sexualAct != "" || nsfwLevel >= 2 {
		emotion = "sexual"
	} else {
		for _, group := range emotionKeywords {
			if containsAny(msgLower, group.keywords) {
				emotion = group.emotion
				break
			}
		}
	}

	imageType := ""
	if wantsImage {
		switch {
		case sexualAct != "" || nsfwLevel >= 3:
			imageType = "sexual"
		case nsfwLevel >= 2:
			imageType = "nude"
		case strings.Contains(msgLower, "lingerie") || strings.Contains(msgLower, "bikini"):
			imageType = "outfit"
		case strings.Contains(msgLower, "pose"):
			imageType = "pose"
		case strings.Contains(msgLower, "corps") || strings.Contains(msgLower, "body") || strings.Contains(msgLower, "full"):
			imageType = "full_body"
		default:
			imageType = "selfie"
		}
	}

	kind := KindChatOnly
	if wantsImage {
		// Long messages want conversation alongside the picture.
		if len(strings.Fields(message)) > 15 {
			kind = KindChatWithImage
		} else {
			kind = KindImageRequest
		}
	}

	return Record{
		Intent:    kind,
		NSFWLevel: nsfwLevel,
		Emotion:   emotion,
		ImageDetails: ImageDetails{
			Requested: wantsImage,
			Type:      imageType,
			Outfit:    firstMatch(msgLower, outfitKeywords),
			Pose:      firstMatch(msgLower, poseKeywords),
			Setting:   firstMatch(msgLower, settingKeywords),
			SexualAct: sexualAct,
		},
		Language: language,
		Source:   SourceKeywordsOnly,
	}
}
