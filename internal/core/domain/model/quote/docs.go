// Package quote implements the carrier Quote aggregate.
//
// A quote starts in BROUILLON, is sent to the shipper (ENVOYE) and ends in
// exactly one of ACCEPTE, REFUSE, EXPIRE or MODIFIE. Expiry is a time
// comparison: an active quote whose validUntil has passed is reported as
// EXPIRE by EffectiveStatus even before the sweep job rewrites the stored status.
package quote
