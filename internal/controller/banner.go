package controller

import "time"

// ShowTransientError shows message on the banner and clears it after the banner timeout.
// Every call restarts the timeout.
func (c *Controller) ShowTransientError(message string) {
	c.mu.Lock()
	c.setBanner(message)
	c.mu.Unlock()

	c.notify()
}

// setBanner shows message and re-arms the clear timer. c.mu must be held.
func (c *Controller) setBanner(message string) {
	c.page.Banner = message
	c.bannerGen++
	gen := c.bannerGen

	if c.bannerTimer != nil {
		c.bannerTimer.Stop()
	}
	if !c.closed {
		c.bannerTimer = time.AfterFunc(c.bannerTimeout, func() { c.clearBanner(gen) })
	}
}

// clearBanner hides the banner unless a newer message replaced it.
func (c *Controller) clearBanner(gen uint64) {
	c.mu.Lock()
	if gen != c.bannerGen {
		c.mu.Unlock()
		return
	}
	c.page.Banner = ""
	c.bannerTimer = nil
	c.mu.Unlock()

	c.notify()
}

// Close stops the banner timer. The banner keeps its current text.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.bannerTimer != nil {
		c.bannerTimer.Stop()
		c.bannerTimer = nil
	}
}
