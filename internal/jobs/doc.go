// package jobs runs bulk playlist operations.
//
// A job walks an ordered queue of video page URLs one at a time: open a
// hidden surface, run the playlist worker against it, record exactly one
// result, dispose the surface, move on. A single lane is enforced; starting
// a new job tears the previous one down first. Failures on individual
// targets never abort the batch.
package jobs
