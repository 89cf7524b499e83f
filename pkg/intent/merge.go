package intent

// merge combines the LLM and keyword passes. The LLM result wins on
// nuance, keywords win on safety-relevant signals it missed: an image
// request the LLM ignored, or a higher explicitness level.
func merge(llmResult Record, llmOK bool, keywordResult Record) Record {
	if !llmOK {
		keywordResult.Source = SourceKeywordsOnly
		return keywordResult
	}

	merged := llmResult
	merged.Source = SourceLLM

	// Keywords found an image request the LLM missed.
	if keywordResult.ImageDetails.Requested && !llmResult.ImageDetails.Requested {
		merged.Intent = keywordResult.Intent
		merged.ImageDetails = keywordResult.ImageDetails
		merged.Source = SourceLLMCorrected
	}

	// Explicitness never goes below what keywords detected.
	if keywordResult.NSFWLevel > merged.NSFWLevel {
		merged.NSFWLevel = keywordResult.NSFWLevel
		merged.Source = SourceLLMCorrected
	}

	// Backfill image details the LLM left blank.
	if merged.ImageDetails.Requested {
		kw := keywordResult.ImageDetails
		if merged.ImageDetails.Outfit == "" {
			merged.ImageDetails.Outfit = kw.Outfit
		}
		if merged.ImageDetails.Pose == "" {
			merged.ImageDetails.Pose = kw.Pose
		}
		if merged.ImageDetails.Setting == "" {
			merged.ImageDetails.Setting = kw.Setting
		}
		if merged.ImageDetails.Type == "" {
			merged.ImageDetails.Type = kw.Type
		}
		if merged.ImageDetails.SexualAct == "" {
			merged.ImageDetails.SexualAct = kw.SexualAct
		}
	}

	if merged.Emotion == "" {
		merged.Emotion = keywordResult.Emotion
	}
	if merged.Language == "" {
		merged.Language = keywordResult.Language
		if merged.Language == "" {
			merged.Language = "fr"
		}
	}

	return merged
}
