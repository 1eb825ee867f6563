// Package youdao implements a client for the youdao web translator
// (fanyi.youdao.com). The service has no public contract: the client
// bootstraps a session the way the browser front-end does, by scraping the
// application bundle for the key exchange secret and the response decode
// key material, and then issues signed translate requests whose encrypted
// responses are decoded into a Result.
//
// Every bootstrap step fails with its own error so that a change in the
// upstream bundle points directly at the broken assumption.
package youdao
