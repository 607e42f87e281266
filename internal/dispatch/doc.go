// Package dispatch executes parsed commands against the tree hollow API and
// routes the decoded results to the render layer.
//
// Execute is an exhaustive switch over the command variants. Each variant
// performs exactly one API call, except reply (create then re-fetch) and
// image (fetch then one download per image). Responses are classified here:
// any status other than 200/204, or a read response whose JSON object carries
// a "code" field, becomes a services.UnexpectedResponseError.
package dispatch
