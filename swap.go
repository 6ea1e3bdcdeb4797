package formbuilder

// SwapMode defines HTMX swap strategies for how the response to an HTMX
// form submission replaces the target.
//
// See https://htmx.org/attributes/hx-swap/ for visual examples.
type SwapMode string

const (
	// SwapOuter replaces the entire target including its tag (outerHTML).
	// Use it to swap a re-rendered form, errors included, in place.
	SwapOuter SwapMode = "outerHTML"

	// SwapInner replaces only the target's contents (innerHTML).
	SwapInner SwapMode = "innerHTML"

	// SwapBeforeEnd appends the response to the end of the target's contents.
	SwapBeforeEnd SwapMode = "beforeend"

	// SwapAfterEnd inserts the response after the target element.
	SwapAfterEnd SwapMode = "afterend"

	// SwapNone performs no swap; useful when the response only carries
	// headers or out-of-band content.
	SwapNone SwapMode = "none"
)
