// Package decision turns a ranked community list into a match tier and the
// action taken for it.
//
// Tiers come from an ordered table of score intervals (see DefaultTiers):
// above 0.87 is a soulmate match and the user is joined to the top
// community; 0.55 through 0.87 inclusive is an explorer match and up to five
// options are presented; anything lower falls back to the most popular
// communities and asks the user to update their profile.
//
// InjectDiversity keeps the presented list from being dominated by one
// category.
package decision
