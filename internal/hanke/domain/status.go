package domain

// ValidationResult is the outcome of a mandatory-field check. An empty Paths means the check passed.
type ValidationResult struct {
	Paths []string
}

func (r ValidationResult) OK() bool { return len(r.Paths) == 0 }

// DecideStatus picks the status a hanke gets when it is saved.
// A draft is published as soon as it passes validation; a public hanke may not
// regress, so failing validation on it is an error.
func DecideStatus(current Status, result ValidationResult, hankeTunnus string) (Status, error) {
	switch current {
	case StatusDraft:
		if result.OK() {
			return StatusPublic, nil
		}
		return StatusDraft, nil
	case StatusPublic:
		if result.OK() {
			return StatusPublic, nil
		}
		return "", &ValidationError{HankeTunnus: hankeTunnus, Paths: result.Paths}
	default:
		return "", ArgumentError("a hanke cannot be updated when in status %s. hankeTunnus=%s", current, hankeTunnus)
	}
}
