// package surface manages the hidden execution surfaces that bulk jobs run
// against: per-target page handles opened and disposed one at a time, and a
// shared refcounted parse surface for one-shot scrape tasks.
package surface
