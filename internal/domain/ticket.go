package domain

// DefaultUrgency is attached to every created ticket; the gateway does not
// expose urgency to callers.
const DefaultUrgency = 3

// Ticket is the normalized view of a remote GLPI ticket record. Status and
// request source stay as the remote numeric codes; the gateway never
// translates them back to labels.
type Ticket struct {
	ID              int
	Title           string
	Description     string
	Status          int
	Urgency         int
	OpeningDate     string
	RequestSourceID int
	CategoryID      *int
	RequesterID     *int
}

// TicketRequest is a fully validated, enum-resolved creation request ready for
// submission. Built fresh per call; never reused.
type TicketRequest struct {
	Name            string
	Content         string
	StatusID        int
	OpeningDate     string
	RequestSourceID int
	RequesterID     *int
}
