package main

// showcaseSheet styles every page. The root carries "light" or "dark".
const showcaseSheet = `
window.light { background-color: #fafafa; color: #202020; }
window.dark { background-color: #121212; color: #e0e0e0; }

.page { child-space: 16px; row-between: 12px; }
.title { font-size: 20; font-weight: bold; height: 28px; }
.subtitle { font-size: 14; height: 20px; }
.section { font-size: 16; font-weight: bold; height: 22px; }

button {
    height: 40px;
    width: 120px;
    background-color: #1565c0;
    color: white;
    border-radius: 6;
    transition: background-color 150ms ease-out;
}
button:hover { background-color: #1e88e5; }
button:disabled { background-color: #9e9e9e; }
window.dark button { background-color: #90caf9; color: #121212; }

input {
    height: 32px;
    border-width: 1;
    border-color: #9e9e9e;
}
input:focus { border-color: #1565c0; border-width: 2; }
`
