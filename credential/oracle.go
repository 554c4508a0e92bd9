package credential

import "time"

const (
	// DefaultSkew guards against a call racing a credential the server will
	// reject by the time the request arrives
	DefaultSkew = 30 * time.Second

	// DefaultRenewLead schedules proactive renewal this long before expiry
	DefaultRenewLead = 5 * time.Minute

	// DefaultRenewFloor is the earliest a renewal may be scheduled
	DefaultRenewFloor = time.Minute
)

// Oracle decides credential expiry and computes renewal deadlines.
// Methods taking an explicit now are pure; the bare variants use wall time.
type Oracle struct {
	Skew       time.Duration
	RenewLead  time.Duration
	RenewFloor time.Duration
}

// NewOracle creates an oracle, zero durations fall back to the defaults
func NewOracle(skew, renewLead, renewFloor time.Duration) *Oracle {
	o := &Oracle{
		Skew:       skew,
		RenewLead:  renewLead,
		RenewFloor: renewFloor,
	}
	if o.Skew == 0 {
		o.Skew = DefaultSkew
	}
	if o.RenewLead == 0 {
		o.RenewLead = DefaultRenewLead
	}
	if o.RenewFloor == 0 {
		o.RenewFloor = DefaultRenewFloor
	}
	return o
}

// IsExpired reports whether the credential is expired against wall time
func (o *Oracle) IsExpired(c *Credential) bool {
	return o.IsExpiredAt(c, time.Now())
}

// IsExpiredAt reports whether the credential is expired at the given instant.
// An undecodable credential is always expired.
func (o *Oracle) IsExpiredAt(c *Credential, now time.Time) bool {
	if !c.Decodable() {
		return true
	}
	return c.expiresAt.Before(now.Add(o.Skew))
}

// RenewalDelay returns how long to wait before proactive renewal,
// measured from wall time
func (o *Oracle) RenewalDelay(c *Credential) time.Duration {
	return o.RenewalDelayAt(c, time.Now())
}

// RenewalDelayAt computes the renewal delay from the given instant:
// lead time before expiry, but never sooner than the floor. The floor only
// prevents scheduling sooner, it is not applied retroactively.
func (o *Oracle) RenewalDelayAt(c *Credential, now time.Time) time.Duration {
	delay := o.RenewFloor
	if c.Decodable() {
		if until := c.expiresAt.Sub(now) - o.RenewLead; until > delay {
			delay = until
		}
	}
	return delay
}
