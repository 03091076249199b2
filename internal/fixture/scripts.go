package fixture

import "fmt"

// SidebarHostID is the id of the element hosting the sidebar shadow root.
const SidebarHostID = "recorder-sidebar-host"

// Globals the fixture page must expose.
var RequiredGlobals = []string{"openSidebar", "openConfig"}

// OpenSidebarScript shows the sidebar.
const OpenSidebarScript = `window.openSidebar()`

// OpenConfigScript switches the sidebar to its configuration view.
const OpenConfigScript = `window.openConfig()`

// GlobalsCheckScript evaluates to the names of required globals that are not
// functions on window. An empty array means the page is usable.
var GlobalsCheckScript = fmt.Sprintf(`(() => {
	const names = %s;
	return names.filter((n) => typeof window[n] !== 'function');
})()`, jsStringArray(RequiredGlobals))

// MockRowAttr marks the review rows added by ReviewViewScript.
const MockRowAttr = "data-mock-row"

// ReviewViewScript hides the configuration view, shows the review view and
// appends n checked mock rows to the review list.
func ReviewViewScript(n int) string {
	return fmt.Sprintf(`(() => {
	const host = document.getElementById(%q);
	const shadow = host.shadowRoot;
	shadow.getElementById('configView').classList.add('hidden');
	shadow.getElementById('reviewView').classList.remove('hidden');

	const list = shadow.getElementById('reviewList');
	for (let i = 0; i < %d; i++) {
		const item = document.createElement('div');
		item.className = 'review-item';
		item.setAttribute(%q, '');
		item.style.padding = '10px';
		item.style.borderBottom = '1px solid #eee';
		item.innerHTML = '<input type="checkbox" checked> Item ' + (i + 1);
		list.appendChild(item);
	}
})()`, SidebarHostID, n, MockRowAttr)
}

// CountReviewItemsScript evaluates to the number of checked mock rows in the
// review list, or -1 when the sidebar is missing. Rows the page rendered
// itself are not counted.
var CountReviewItemsScript = fmt.Sprintf(`(() => {
	const host = document.getElementById(%q);
	if (!host || !host.shadowRoot) {
		return -1;
	}
	const list = host.shadowRoot.getElementById('reviewList');
	if (!list) {
		return -1;
	}
	return list.querySelectorAll('.review-item[%s] input[type="checkbox"]:checked').length;
})()`, SidebarHostID, MockRowAttr)

func jsStringArray(items []string) string {
	out := "["
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", s)
	}
	return out + "]"
}
