// Package auth is the authorization and credential core for a business
// directory platform: companies, their posts and job listings, and the job
// applications users submit against them.
//
// Account model:
//   - Users carry a role (admin, user, company:admin, company:agent), an
//     optional company affiliation, and independent verified/blocked
//     timestamps. Blocked accounts keep read access while losing job and
//     application mutations.
//
// Capability tokens:
//   - Logging in issues an AccessToken record whose permission grant is
//     derived from the user's role at that moment and never changes
//     afterwards. The opaque value handed to clients is a signed JWT whose
//     jti points back at the record, so revocation is a row delete and a
//     role change only takes effect on the next login.
//
// Decision engine:
//   - The Can* functions in the abilities files evaluate a user (with their
//     current token) against a target resource and return a Decision with a
//     stable reason code. Decisions are pure, the same inputs always produce
//     the same outcome.
//
// Verification tokens:
//   - Short lived single use numeric codes back email verification, password
//     reset, and email change flows. Consuming a code is a conditional
//     delete, so concurrent attempts race on the row and exactly one wins.
package auth
