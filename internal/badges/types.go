package badges

// BadgeID identifies a milestone.
type BadgeID string

const (
	FirstInterview    BadgeID = "first_interview"
	TenQuestions      BadgeID = "ten_questions"
	FiftyQuestions    BadgeID = "fifty_questions"
	Dedicated         BadgeID = "dedicated"
	ClearCommunicator BadgeID = "clear_communicator"
	ConfidentSpeaker  BadgeID = "confident_speaker"
	ContentExpert     BadgeID = "content_expert"
	HighAchiever      BadgeID = "high_achiever"
	PerfectAnswer     BadgeID = "perfect_answer"
)

// All returns every badge in evaluation order.
func All() []BadgeID {
	ids := make([]BadgeID, len(table))
	for i, r := range table {
		ids[i] = r.id
	}
	return ids
}

// DisplayName returns a human-readable label for the badge.
func (b BadgeID) DisplayName() string {
	switch b {
	case FirstInterview:
		return "First Interview"
	case TenQuestions:
		return "Getting Warmed Up"
	case FiftyQuestions:
		return "Interview Veteran"
	case Dedicated:
		return "Dedicated"
	case ClearCommunicator:
		return "Clear Communicator"
	case ConfidentSpeaker:
		return "Confident Speaker"
	case ContentExpert:
		return "Content Expert"
	case HighAchiever:
		return "High Achiever"
	case PerfectAnswer:
		return "Perfect Answer"
	default:
		return string(b)
	}
}

// Icon returns the display icon for the badge.
func (b BadgeID) Icon() string {
	switch b {
	case FirstInterview:
		return "🎤"
	case TenQuestions, FiftyQuestions:
		return "📚"
	case Dedicated:
		return "🔥"
	case ClearCommunicator:
		return "💬"
	case ConfidentSpeaker:
		return "🦁"
	case ContentExpert:
		return "🧠"
	case HighAchiever:
		return "🏆"
	case PerfectAnswer:
		return "💎"
	default:
		return "✦"
	}
}

// Description explains how the badge is earned.
func (b BadgeID) Description() string {
	for _, r := range table {
		if r.id == b {
			return r.description
		}
	}
	return ""
}
