package main

// indexHTML is the single-page chat interface served at the root. It talks
// to the form-based /chat endpoint and renders the analytics views inline.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Travel Planning Agent</title>
    <style>
        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: #333;
        }
        .container {
            background: white;
            border-radius: 10px;
            padding: 30px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.2);
        }
        .header { text-align: center; margin-bottom: 30px; color: #4a5568; }
        .chat-container {
            border: 2px solid #e2e8f0;
            border-radius: 8px;
            height: 500px;
            overflow-y: auto;
            padding: 20px;
            margin-bottom: 20px;
            background: #f7fafc;
        }
        .input-container { display: flex; gap: 10px; margin-bottom: 20px; }
        #user-input {
            flex: 1;
            padding: 12px;
            border: 2px solid #e2e8f0;
            border-radius: 6px;
            font-size: 16px;
        }
        button {
            padding: 12px 24px;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            border: none;
            border-radius: 6px;
            cursor: pointer;
            font-size: 16px;
            font-weight: bold;
        }
        button:hover { opacity: 0.9; }
        .message { margin: 15px 0; padding: 15px; border-radius: 8px; max-width: 80%; }
        .user-message { background: #bee3f8; margin-left: auto; text-align: right; }
        .agent-message { background: #c6f6d5; margin-right: auto; }
        .system-message { background: #fed7d7; text-align: center; font-style: italic; }
        .analytics-panel { margin-top: 30px; padding: 20px; background: #edf2f7; border-radius: 8px; }
        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 15px;
            margin-top: 15px;
        }
        .stat-card {
            background: white;
            padding: 15px;
            border-radius: 6px;
            text-align: center;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Travel Planning Agent</h1>
            <p>Agent-to-agent travel planning with graph-based conversation tracking</p>
        </div>

        <div class="chat-container" id="chat-container">
            <div class="message system-message">
                Welcome! Ask me about flights, hotels, or trip planning. Conversations
                are tracked in the graph database for continuous improvement.
            </div>
        </div>

        <div class="input-container">
            <input type="text" id="user-input" placeholder="Ask me about your travel needs..." maxlength="500">
            <button onclick="sendMessage()">Send</button>
            <button onclick="endConversation()">End Chat</button>
        </div>

        <div class="input-container">
            <input type="text" id="session-id" placeholder="Your name (optional)" value="guest_user">
            <input type="text" id="context-id" placeholder="Conversation ID" value="">
            <button onclick="loadAnalytics()">Show Analytics</button>
        </div>

        <div class="analytics-panel" id="analytics-panel" style="display: none;">
            <h3>Conversation Analytics</h3>
            <div class="stats-grid" id="stats-grid"></div>
        </div>
    </div>

    <script>
        let conversationId = 'conv_' + Date.now() + '_' + Math.random().toString(36).substr(2, 9);
        document.getElementById('context-id').value = conversationId;

        function addMessage(content, type = 'agent') {
            const chatContainer = document.getElementById('chat-container');
            const messageDiv = document.createElement('div');
            messageDiv.className = 'message ' + type + '-message';
            messageDiv.innerHTML = content.replace(/\n/g, '<br>');
            chatContainer.appendChild(messageDiv);
            chatContainer.scrollTop = chatContainer.scrollHeight;
        }

        async function sendMessage() {
            const input = document.getElementById('user-input');
            const sessionId = document.getElementById('session-id').value || 'guest_user';
            const contextId = document.getElementById('context-id').value || conversationId;
            const message = input.value.trim();

            if (!message) return;

            addMessage('You: ' + message, 'user');
            input.value = '';

            try {
                const formData = new FormData();
                formData.append('user_input', message);
                formData.append('context_id', contextId);
                formData.append('session_id', sessionId);

                const response = await fetch('/chat', { method: 'POST', body: formData });
                const data = await response.json();
                addMessage('Agent: ' + data.response, 'agent');
            } catch (error) {
                addMessage('Error: ' + error.message, 'system');
            }
        }

        async function endConversation() {
            const contextId = document.getElementById('context-id').value || conversationId;

            try {
                const response = await fetch('/end_conversation/' + contextId, { method: 'POST' });
                if (response.ok) {
                    addMessage('Conversation ended and saved to the graph database. Thank you!', 'system');
                    conversationId = 'conv_' + Date.now() + '_' + Math.random().toString(36).substr(2, 9);
                    document.getElementById('context-id').value = conversationId;
                }
            } catch (error) {
                addMessage('Error ending conversation: ' + error.message, 'system');
            }
        }

        async function loadAnalytics() {
            const contextId = document.getElementById('context-id').value;
            const analyticsPanel = document.getElementById('analytics-panel');
            const statsGrid = document.getElementById('stats-grid');

            try {
                let url = '/analytics';
                if (contextId) {
                    url += '?context_id=' + encodeURIComponent(contextId);
                }

                const response = await fetch(url);
                const data = await response.json();

                let statsHtml = '';
                if (data.conversation_analytics) {
                    const conv = data.conversation_analytics;
                    statsHtml += '<div class="stat-card"><h4>Messages</h4><p>' + (conv.message_count || 0) + '</p></div>';
                    statsHtml += '<div class="stat-card"><h4>Agents Involved</h4><p>' + (conv.agents ? conv.agents.length : 0) + '</p></div>';
                }
                if (data.overall_analytics) {
                    const overall = data.overall_analytics;
                    statsHtml += '<div class="stat-card"><h4>Total Conversations</h4><p>' + (overall.total_conversations || 0) + '</p></div>';
                    statsHtml += '<div class="stat-card"><h4>Total Messages</h4><p>' + (overall.total_messages || 0) + '</p></div>';
                    statsHtml += '<div class="stat-card"><h4>Avg Duration</h4><p>' + Math.round(overall.avg_duration || 0) + 's</p></div>';
                }

                statsGrid.innerHTML = statsHtml;
                analyticsPanel.style.display = 'block';
            } catch (error) {
                addMessage('Error loading analytics: ' + error.message, 'system');
            }
        }

        document.getElementById('user-input').addEventListener('keypress', function(e) {
            if (e.key === 'Enter') {
                sendMessage();
            }
        });
    </script>
</body>
</html>
`
