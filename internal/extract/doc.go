// Package extract recovers session secrets from the youdao web front-end by
// pattern matching its landing page and minified application bundle. The
// bundle is never executed. Each extraction is a separate pure function so
// that a change in the upstream bundle only requires touching one of them.
package extract
