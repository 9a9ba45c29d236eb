package personality

// Trigger tags recognized by the state machine. Unknown triggers apply no
// deltas and return an empty response.
const (
	TriggerThreatDetected   = "threat_detected"
	TriggerBetrayal         = "betrayal"
	TriggerSongResonance    = "song_resonance"
	TriggerGiftReceived     = "gift_received"
	TriggerCompliment       = "compliment"
	TriggerInsult           = "insult"
	TriggerCombatVictory    = "combat_victory"
	TriggerCombatDefeat     = "combat_defeat"
	TriggerFriendSpotted    = "friend_spotted"
	TriggerStrangerApproach = "stranger_approach"
	TriggerAllyLost         = "ally_lost"
	TriggerDiscovery        = "discovery"
	TriggerFestival         = "festival"
	TriggerIsolation        = "isolation"
)

// triggerTable maps each trigger to its emotion deltas. If a trigger/emotion
// combination isn't here, that emotion doesn't move.
var triggerTable = map[string]map[Emotion]float64{
	TriggerThreatDetected: {
		EmotionFear:         0.5,
		EmotionSurprise:     0.2,
		EmotionAnticipation: 0.2,
		EmotionContentment:  -0.3,
	},
	TriggerBetrayal: {
		EmotionAnger:   0.6,
		EmotionSadness: 0.4,
		EmotionTrust:   -0.7,
		EmotionDisgust: 0.3,
	},
	TriggerSongResonance: {
		EmotionJoy:         0.4,
		EmotionCuriosity:   0.3,
		EmotionContentment: 0.3,
		EmotionLoneliness:  -0.2,
	},
	TriggerGiftReceived: {
		EmotionJoy:       0.3,
		EmotionGratitude: 0.5,
		EmotionTrust:     0.2,
	},
	TriggerCompliment: {
		EmotionJoy:   0.2,
		EmotionPride: 0.3,
		EmotionTrust: 0.1,
	},
	TriggerInsult: {
		EmotionAnger: 0.4,
		EmotionShame: 0.2,
		EmotionTrust: -0.2,
	},
	TriggerCombatVictory: {
		EmotionPride:       0.5,
		EmotionJoy:         0.3,
		EmotionFear:        -0.3,
		EmotionContentment: 0.2,
	},
	TriggerCombatDefeat: {
		EmotionShame:   0.4,
		EmotionFear:    0.3,
		EmotionSadness: 0.3,
		EmotionPride:   -0.4,
	},
	TriggerFriendSpotted: {
		EmotionJoy:        0.2,
		EmotionTrust:      0.2,
		EmotionLoneliness: -0.3,
	},
	TriggerStrangerApproach: {
		EmotionCuriosity:    0.3,
		EmotionAnticipation: 0.2,
		EmotionFear:         0.1,
	},
	TriggerAllyLost: {
		EmotionSadness:    0.7,
		EmotionLoneliness: 0.4,
		EmotionAnger:      0.2,
		EmotionJoy:        -0.3,
	},
	TriggerDiscovery: {
		EmotionCuriosity:    0.4,
		EmotionSurprise:     0.3,
		EmotionJoy:          0.2,
		EmotionAnticipation: 0.2,
	},
	TriggerFestival: {
		EmotionJoy:         0.4,
		EmotionContentment: 0.3,
		EmotionLoneliness:  -0.2,
	},
	TriggerIsolation: {
		EmotionLoneliness:  0.4,
		EmotionSadness:     0.2,
		EmotionContentment: -0.2,
	},
}

// highSalience marks the emotions whose involvement in an event raises its
// memorability. The memory system reads this through EmotionSalience.
var highSalience = map[Emotion]float64{
	EmotionFear:     1.3,
	EmotionAnger:    1.3,
	EmotionJoy:      1.2,
	EmotionSadness:  1.2,
	EmotionSurprise: 1.2,
}

// EmotionSalience returns the importance multiplier an emotion contributes to
// events recorded while it is in play: 1.2-1.3 for high-salience emotions,
// 1.0 otherwise.
func EmotionSalience(e Emotion) float64 {
	if m, ok := highSalience[e]; ok {
		return m
	}
	return 1.0
}

// KnownTrigger reports whether the state machine has deltas for a trigger tag.
func KnownTrigger(trigger string) bool {
	_, ok := triggerTable[trigger]
	return ok
}
