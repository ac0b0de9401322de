// Package intro commits the side effects of a soulmate match: the user is
// joined to the top community, and a short introduction naming a few
// recently active members is posted to the community channel.
//
// Generated text is scored for toxicity before posting. A draft scoring
// above the threshold is dropped and the match is downgraded to a plain
// join; this never fails the task.
package intro
