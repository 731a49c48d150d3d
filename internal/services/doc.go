// Package services implements the two upstream calls behind a preview lookup.
//
// # Catalog Search
//
// [SpotifyService.ResolvePreviewURL] sends one GET to the search endpoint with the query, type=track,
// the configured market, limit=1 and offset=0. The bearer credential is passed through as given;
// the upstream decides whether it is valid. The preview URL is read from
//
//	tracks.items[0].preview_url
//
// with a [jsonq.Navigator] walk, so a missing key, an empty result list or a wrongly typed node becomes a
// parse error naming the failing step instead of a panic.
//
// # Preview Fetch
//
// [PreviewService.FetchPreviewAudio] downloads the preview with Accept: */* and no credential.
//
// # Tokens
//
// [ClientCredentialsToken] obtains an app token from the accounts service using the client-credentials flow.
// Lookups themselves never refresh or validate tokens.
//
// # Error Handling
//
// Every failure is a [*shared.ClassifiedError]:
//   - [shared.KindClient] : empty input, status 400, nothing sent
//   - [shared.KindTransport] : no response received, no status
//   - [shared.KindUpstreamHTTP] : non-2xx response, upstream status and message forwarded
//   - [shared.KindParse] : response shape did not match, status 500
//   - [shared.KindContractViolation] : preview_url is not a string, status 500
//
// Each request is a fresh [rest.Request]; only the underlying resty client is shared.
package services
