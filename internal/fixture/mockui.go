package fixture

// MockUIHTML is a static stand-in for a page with the recorder sidebar
// injected. The sidebar lives in an open shadow root under
// #recorder-sidebar-host and is driven through window.openSidebar and
// window.openConfig, the same globals a real page exposes to the run.
const MockUIHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>verify_ui Mock UI</title>
    <style>
        body {
            font-family: system-ui, -apple-system, sans-serif;
            margin: 0;
            padding: 40px;
            background: #ffffff;
            color: #222;
        }
        .app-header { font-size: 22px; font-weight: bold; margin-bottom: 20px; }
        .app-card {
            max-width: 600px;
            border: 1px solid #ddd;
            border-radius: 6px;
            padding: 20px;
            background: #fafafa;
        }
    </style>
</head>
<body>
    <div class="app-header">Mock Application</div>
    <div class="app-card">
        <p>This page stands in for the application surface during visual verification.</p>
        <button id="appAction">Submit order</button>
    </div>

    <script>
        (function () {
            const host = document.createElement('div');
            host.id = 'recorder-sidebar-host';
            const shadow = host.attachShadow({ mode: 'open' });

            const style = document.createElement('style');
            style.textContent = [
                ':host { all: initial; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }',
                '.sidebar { position: fixed; top: 0; right: 0; width: 400px; height: 100vh; background: #f8f9fa;',
                '  border-left: 1px solid #ccc; z-index: 2147483647; display: none; flex-direction: column;',
                '  box-shadow: -2px 0 5px rgba(0,0,0,0.1); box-sizing: border-box; }',
                '.sidebar.visible { display: flex; }',
                '.header { padding: 15px; background: #343a40; color: #fff; display: flex; justify-content: space-between; }',
                '.content { flex: 1; overflow-y: auto; padding: 15px; }',
                '.footer { padding: 15px; background: #e9ecef; border-top: 1px solid #ddd; display: flex; gap: 5px; justify-content: flex-end; }',
                '.btn { padding: 8px 12px; border: none; border-radius: 4px; color: #fff; font-weight: bold; font-size: 14px; }',
                '.btn-primary { background: #007bff; }',
                '.btn-success { background: #28a745; }',
                '.btn-danger { background: #dc3545; }',
                '.btn-secondary { background: #6c757d; }',
                '.hidden { display: none !important; }',
                'h3 { margin-top: 0; }',
                '.config-row { display: flex; gap: 5px; margin-bottom: 5px; }',
                '.config-row input { flex: 1; padding: 4px; border: 1px solid #ccc; border-radius: 3px; }',
                '.review-item { display: flex; gap: 10px; align-items: flex-start; font-size: 14px; }'
            ].join('\n');
            shadow.appendChild(style);

            const sidebar = document.createElement('div');
            sidebar.className = 'sidebar';
            sidebar.innerHTML = [
                '<div class="header"><span>Case Recorder</span><span>Settings</span></div>',
                '<div class="content">',
                '  <div id="configView" class="hidden">',
                '    <h3>Configuration</h3>',
                '    <div class="config-row"><input id="cfgProductCode" placeholder="Product code"></div>',
                '    <div class="config-row"><input id="cfgUsername" placeholder="User account"></div>',
                '    <div class="config-row"><input placeholder="URL pattern"><input placeholder="Alias"></div>',
                '    <button id="saveConfigBtn" class="btn btn-primary">Save</button>',
                '  </div>',
                '  <div id="setupView"><h3>Select a test case</h3><div id="caseList">Loading cases...</div></div>',
                '  <div id="reviewView" class="hidden">',
                '    <h3>Review and edit</h3>',
                '    <p style="font-size:12px;color:#666;">Check the entries to report.</p>',
                '    <div id="reviewList"></div>',
                '  </div>',
                '</div>',
                '<div class="footer">',
                '  <button id="reportPassBtn" class="btn btn-success">Report pass</button>',
                '  <button id="reportBugBtn" class="btn btn-danger">Report bug</button>',
                '</div>'
            ].join('\n');
            shadow.appendChild(sidebar);
            document.body.appendChild(host);

            window.openSidebar = function () {
                sidebar.classList.add('visible');
            };

            window.openConfig = function () {
                shadow.getElementById('setupView').classList.add('hidden');
                shadow.getElementById('reviewView').classList.add('hidden');
                shadow.getElementById('configView').classList.remove('hidden');
            };

            console.log('[mock_ui] sidebar ready');
        })();
    </script>
</body>
</html>`
