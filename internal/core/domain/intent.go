package domain

// Intent is the user's stated purpose when looking for a machine.
type Intent string

const (
	IntentDonor    Intent = "donor"
	IntentReceiver Intent = "receiver"
)

// ParseIntent maps a query value to an Intent. Only "receiver" selects the
// receiver view; everything else, including the empty string, is donor.
func ParseIntent(s string) Intent {
	if s == string(IntentReceiver) {
		return IntentReceiver
	}
	return IntentDonor
}

// Opposite returns the other intent, offered when a view comes back empty.
func (i Intent) Opposite() Intent {
	if i == IntentReceiver {
		return IntentDonor
	}
	return IntentReceiver
}
