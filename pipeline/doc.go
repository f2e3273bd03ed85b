// Package pipeline routes inbound chat updates to handlers through a chain of
// middleware. The transaction middleware wraps every handler in a txscope.Scope
// so handler code finds its lazy transaction handle on the context.
package pipeline
