package main

import (
	"context"
	"log"
	"time"
)

// syncSubscriptions fetches every configured feed and replaces its events.
// A failed feed keeps the events of its last successful sync.
func (a *Agenda) syncSubscriptions() {
	a.syncMu.Lock()
	defer a.syncMu.Unlock()

	config := a.currentConfig()
	from, to := config.SubscriptionWindow(time.Now())

	configured := make(map[string]bool)
	total := 0
	for _, source := range config.ICalSources {
		if !source.Validate() {
			continue
		}
		configured[source.ID] = true

		events, err := a.fetcher.FetchEvents(context.Background(), source, from, to)
		if err != nil {
			log.Printf("Error fetching iCal source '%s' (%s): %v", source.Name, source.URL, err)
			continue
		}

		a.events.SetSubscribedEvents(source.ID, events)
		a.subscribed[source.ID] = true
		total += len(events)
		log.Printf("Synced %d events from '%s'", len(events), source.Name)
	}

	for id := range a.subscribed {
		if !configured[id] {
			a.events.RemoveSubscription(id)
			delete(a.subscribed, id)
		}
	}

	if len(configured) > 0 {
		log.Printf("Total synced %d events from %d iCal sources", total, len(configured))
	}
}

func (a *Agenda) startBackgroundSync() {
	a.tickerMu.Lock()
	defer a.tickerMu.Unlock()
	a.startBackgroundSyncLocked()
}

func (a *Agenda) startBackgroundSyncLocked() {
	go a.syncSubscriptions()

	interval := a.currentConfig().UpdateInterval
	if interval <= 0 {
		interval = 30
	}

	ticker := time.NewTicker(time.Duration(interval) * time.Minute)
	stop := make(chan struct{})
	a.syncTicker = ticker
	a.syncStop = stop
	go runEvery(ticker, stop, a.syncSubscriptions)
}

func (a *Agenda) stopBackgroundSync() {
	a.tickerMu.Lock()
	defer a.tickerMu.Unlock()
	a.stopBackgroundSyncLocked()
}

func (a *Agenda) stopBackgroundSyncLocked() {
	if a.syncTicker == nil {
		return
	}
	a.syncTicker.Stop()
	close(a.syncStop)
	a.syncTicker = nil
	a.syncStop = nil
}

func (a *Agenda) restartBackgroundSync() {
	a.tickerMu.Lock()
	defer a.tickerMu.Unlock()
	a.stopBackgroundSyncLocked()
	a.startBackgroundSyncLocked()
}

// runEvery calls fn on every tick until stop is closed. Stopping a ticker
// does not close its channel, so stop is what ends the loop.
func runEvery(ticker *time.Ticker, stop <-chan struct{}, fn func()) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			fn()
		}
	}
}
