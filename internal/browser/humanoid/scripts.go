package humanoid

// Page-side operations executed through Executor.ExecuteScript. Every script is a
// function expression applied to its arguments, and each one is idempotent.
//
// Page globals:
//   window.__glidePointer          last observed pointer coordinates {x, y}
//   window.__glidePointerTracking  set once the mousemove listener is installed
//   window.__glideOverlayCursor    reference to the overlay cursor node

// installTrackingJS installs a passive mousemove listener once per document and seeds
// the position slot with the viewport center. Returns true when it installed the listener.
const installTrackingJS = `() => {
	if (!window.__glidePointer) {
		window.__glidePointer = { x: window.innerWidth / 2, y: window.innerHeight / 2 };
	}
	if (window.__glidePointerTracking) {
		return false;
	}
	document.addEventListener('mousemove', (e) => {
		window.__glidePointer = { x: e.clientX, y: e.clientY };
	}, { passive: true, capture: true });
	window.__glidePointerTracking = true;
	return true;
}`

// readPositionJS returns the tracked coordinates, or the viewport center if nothing was recorded.
const readPositionJS = `() => {
	const p = window.__glidePointer;
	if (p && typeof p.x === 'number' && typeof p.y === 'number') {
		return { x: p.x, y: p.y };
	}
	return { x: window.innerWidth / 2, y: window.innerHeight / 2 };
}`

// createOverlayJS replaces any existing overlay node with a fresh fixed-position marker.
const createOverlayJS = `() => {
	const existing = document.getElementById('glide-visual-cursor');
	if (existing) {
		existing.remove();
	}
	const cursor = document.createElement('div');
	cursor.id = 'glide-visual-cursor';
	Object.assign(cursor.style, {
		position: 'fixed',
		left: '0px',
		top: '0px',
		width: '24px',
		height: '24px',
		marginLeft: '-12px',
		marginTop: '-12px',
		borderRadius: '50%',
		backgroundColor: 'rgba(255, 0, 0, 0.8)',
		border: '2px solid white',
		boxShadow: '0 0 10px 2px yellow',
		boxSizing: 'border-box',
		zIndex: '2147483647',
		pointerEvents: 'none',
		transition: 'transform 0.1s ease-out, background-color 0.1s ease-out',
	});
	(document.body || document.documentElement).appendChild(cursor);
	window.__glideOverlayCursor = cursor;
	return true;
}`

// updateOverlayJS moves the overlay with left/top so the click feedback can own transform.
// With clicking set it spawns a self-removing ripple and briefly shrinks the cursor.
// Returns false when no overlay node is attached.
const updateOverlayJS = `(params) => {
	const cursor = window.__glideOverlayCursor;
	if (!cursor || !cursor.isConnected) {
		return false;
	}
	cursor.style.left = params.x + 'px';
	cursor.style.top = params.y + 'px';
	if (!params.clicking) {
		return true;
	}
	if (!document.getElementById('glide-ripple-keyframes')) {
		const style = document.createElement('style');
		style.id = 'glide-ripple-keyframes';
		style.textContent = '@keyframes glide-ripple { 0% { transform: scale(0.5); opacity: 1; } 100% { transform: scale(1.5); opacity: 0; } }';
		(document.head || document.documentElement).appendChild(style);
	}
	const ripple = document.createElement('div');
	Object.assign(ripple.style, {
		position: 'fixed',
		left: (params.x - 25) + 'px',
		top: (params.y - 25) + 'px',
		width: '50px',
		height: '50px',
		borderRadius: '50%',
		backgroundColor: 'rgba(255, 255, 0, 0.5)',
		zIndex: '2147483646',
		pointerEvents: 'none',
		animation: 'glide-ripple ' + params.rippleMs + 'ms ease-out',
	});
	(document.body || document.documentElement).appendChild(ripple);
	setTimeout(() => ripple.remove(), params.rippleMs);

	cursor.style.backgroundColor = 'rgba(255, 0, 0, 1)';
	cursor.style.transform = 'scale(0.7)';
	setTimeout(() => {
		cursor.style.backgroundColor = 'rgba(255, 0, 0, 0.8)';
		cursor.style.transform = 'scale(1)';
	}, params.feedbackMs);
	return true;
}`
