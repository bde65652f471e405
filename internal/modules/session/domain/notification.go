package domain

type NotificationKind string

const (
	KindBreak         NotificationKind = "break"
	KindFoodDetection NotificationKind = "food_detection"
	KindQuizPrompt    NotificationKind = "quiz_prompt"
	KindTimeUp        NotificationKind = "time_up"
	KindTestReminder  NotificationKind = "test_reminder"
)

type Consumable string

const (
	ConsumableSnack       Consumable = "snack"
	ConsumableEnergyDrink Consumable = "energy drink"
)

const (
	toastLimit  = 60
	QuizMessage = "Let's do a quick focus check to reinforce what you're learning!"
)

// Notification is a one-shot event for the presenters.
type Notification struct {
	Kind      NotificationKind
	Message   string
	Food      Consumable
	Question  string
	Rationale string
	At        int
}

func (n Notification) Title() string {
	switch n.Kind {
	case KindBreak:
		return "Break Time!"
	case KindFoodDetection:
		if n.Food == ConsumableEnergyDrink {
			return "Drink Detected"
		}
		return "Snack Detected"
	case KindQuizPrompt:
		return "Focus Check!"
	case KindTimeUp:
		return "Time's Up!"
	case KindTestReminder:
		return "Test Reminder"
	default:
		return "Notice"
	}
}

func (n Notification) ToastTitle() string {
	switch n.Kind {
	case KindBreak:
		return "Break time!"
	case KindFoodDetection:
		return "Detection alert"
	case KindQuizPrompt:
		return "Focus check!"
	default:
		return n.Title()
	}
}

// Toast is the first 60 characters of the message followed by an ellipsis.
func (n Notification) Toast() string {
	r := []rune(n.Message)
	if len(r) > toastLimit {
		r = r[:toastLimit]
	}
	return string(r) + "..."
}

// AckLabel is the acknowledge button text for non-quiz notifications.
func (n Notification) AckLabel() string {
	if n.Kind == KindBreak {
		return "Got it, taking a break"
	}
	return "Got it, thanks!"
}

const TimeUpMessage = "Planned study time is up. Keep going or end the session."
