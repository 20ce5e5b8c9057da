package rod

// Fixture pages model a small search site: a landing page, a query form and
// a result list with a link that opens in a new tab.
const (
	landingHTML = `<!DOCTYPE html>
<html>
<head><title>Webpilot Search</title></head>
<body>
	<h1>Find anything</h1>
	<p>Type a query on the search page.</p>
</body>
</html>`

	searchHTML = `<!DOCTYPE html>
<html>
<head><title>Search</title></head>
<body>
	<form id="search" action="/results">
		<input id="query" type="search" name="q" value="previous query" placeholder="Search" />
		<button id="go" type="submit">Search</button>
	</form>
</body>
</html>`

	resultsHTML = `<!DOCTYPE html>
<html>
<head><title>Results</title></head>
<body>
	<button id="more">Show more</button>
	<ol id="status"></ol>
	<button id="filters" style="display:none">Filters</button>
	<a href="/article" target="_blank" id="first-result">Go tutorial</a>
	<script>
		document.getElementById('more').addEventListener('click', function() {
			document.getElementById('status').textContent = 'Loaded more';
		});
	</script>
</body>
</html>`
)
