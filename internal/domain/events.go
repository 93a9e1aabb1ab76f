package domain

// Button actions carried in callback data.
const (
	ActionStartReview  = "new_review"
	ActionFinishReview = "finish_review"
)

// Event is an inbound chat event. The concrete types below are the only variants.
type Event interface {
	Sender() UserID
}

// MessageRef points at a message previously sent by the bot.
type MessageRef struct {
	Chat      ChatID
	MessageID int
}

type StartCommand struct {
	User   UserID
	Chat   ChatID
	Handle string // public username, may be empty
}

type ButtonPressed struct {
	User       UserID
	Chat       ChatID
	Action     string
	CallbackID string
	Message    MessageRef
}

type TextReceived struct {
	User    UserID
	Chat    ChatID
	Text    string
	Caption string
}

// PhotoVariant is one resolution of a single submitted image.
type PhotoVariant struct {
	Handle string
	Width  int
	Height int
}

type PhotoReceived struct {
	User     UserID
	Chat     ChatID
	Variants []PhotoVariant
	Caption  string
}

func (e StartCommand) Sender() UserID  { return e.User }
func (e ButtonPressed) Sender() UserID { return e.User }
func (e TextReceived) Sender() UserID  { return e.User }
func (e PhotoReceived) Sender() UserID { return e.User }

// Body is the text to record: the message text, falling back to its caption.
func (e TextReceived) Body() string {
	if e.Text != "" {
		return e.Text
	}
	return e.Caption
}

// BestVariant picks the largest image by pixel area. Ties and unknown
// dimensions go to the later variant.
func BestVariant(vs []PhotoVariant) (PhotoVariant, bool) {
	if len(vs) == 0 {
		return PhotoVariant{}, false
	}
	best := vs[0]
	for _, v := range vs[1:] {
		if v.Width*v.Height >= best.Width*best.Height {
			best = v
		}
	}
	return best, true
}
