package store

import (
	"time"

	"github.com/capitalize-ai/gemini-chat/internal/model"
)

// seedInterval separates consecutive seed messages.
const seedInterval = time.Minute

type seedRoom struct {
	title string
	// offset of the final message before now, in intervals.
	endOffset int
	// lines alternate assistant, user, assistant, ...
	lines []string
}

var seedRooms = []seedRoom{
	{
		title:     "AI Assistant Help",
		endOffset: 1,
		lines: []string{
			"Welcome to the AI Assistant Help chat! I'm here to answer your questions about AI and how to use this application effectively.",
			"Hi! What can AI assistants like you do?",
			"AI assistants like me can help with a variety of tasks including answering questions, providing information, assisting with creative writing, summarizing content, and engaging in conversations. I'm designed to be helpful, harmless, and honest in my interactions.",
			"How do you work? Do you understand what I'm saying?",
			"I work using large language models that have been trained on vast amounts of text data. I process your input by analyzing patterns and context to generate appropriate responses. While I don't 'understand' in the human sense, I can recognize patterns, context, and semantic meaning to provide relevant and helpful responses.",
			"Are my conversations with you private?",
			"In this application, your conversations are stored locally in your browser's localStorage. They aren't sent to external servers unless that functionality has been specifically implemented by the developers. Always check the privacy policy of any AI application you use to understand how your data is handled.",
			"Can you remember things I tell you between different chats?",
			"In this implementation, I don't have the ability to remember information between different chat sessions. Each chat is treated as a separate conversation. If you want me to know something important, you'll need to mention it in the current chat.",
			"What are your limitations?",
			"I have several limitations: I don't have access to the internet or real-time data, I can't run code or access external systems, my knowledge has a cutoff date, I can't learn in the traditional sense (though I can follow instructions within a conversation), and I may occasionally provide incorrect information. I also can't see or hear - I can only process text input.",
			"How can I get the best results when talking with you?",
			"To get the best results: 1) Be specific and clear in your requests, 2) Provide context when needed, 3) Break complex questions into smaller parts, 4) If my response isn't helpful, try rephrasing your question, 5) Let me know if you want more detailed or simpler explanations, and 6) Provide feedback so I can adjust my responses.",
			"Can you help me with coding problems?",
			"Yes, I can help with coding problems by explaining concepts, suggesting approaches, reviewing code snippets, helping debug issues, and providing examples in various programming languages. However, I can't execute code or test solutions directly, so you'll need to implement and test the code yourself.",
			"What about creative writing? Can you help with that?",
			"Absolutely! I can assist with creative writing by generating story ideas, helping develop characters, suggesting plot points, providing feedback on your writing, helping overcome writer's block, and even drafting sample content based on your specifications. Just let me know what kind of creative project you're working on.",
			"How do I create a new chat in this application?",
			"To create a new chat in this application, look for a 'New Chat' button in the sidebar or navigation menu. Clicking this button will start a fresh conversation. Your previous chats should still be accessible from the sidebar if you want to return to them later.",
			"Can I delete messages or entire chats?",
			"Yes, most chat interfaces allow you to delete entire conversations. Look for a delete option (often represented by a trash icon) next to each chat in the sidebar. Individual message deletion might not be supported in all implementations, but check for context menus when you right-click or hover over messages.",
			"What happens if I refresh the page or close my browser?",
			"Since this application stores your chats in localStorage, they should persist even if you refresh the page or close your browser. When you return to the application, your previous conversations should still be available. However, if you clear your browser data or use private/incognito mode, your chat history might be lost.",
			"Thanks for all this information! It's very helpful.",
			"You're welcome! I'm glad I could help. Is there anything else you'd like to know about AI assistants?",
		},
	},
	{
		title:     "Technology Guide",
		endOffset: 0,
		lines: []string{
			"Welcome to the Technology Guide! I can help answer your questions about various technology topics.",
			"Hi! Can you explain what artificial intelligence is in simple terms?",
			"Artificial Intelligence (AI) is technology that enables computers to perform tasks that typically require human intelligence. This includes recognizing patterns, learning from experience, making decisions, and understanding language. Think of it as teaching computers to think and solve problems in ways similar to humans, but often using different methods.",
			"What's the difference between AI, machine learning, and deep learning?",
			"These terms are related but different in scope: AI is the broadest concept - any technology that enables machines to mimic human intelligence. Machine learning is a subset of AI where systems learn from data without explicit programming. Deep learning is a specialized type of machine learning using neural networks with many layers (hence 'deep') to process data in increasingly complex ways, particularly effective for tasks like image and speech recognition.",
			"What is cloud computing?",
			"Cloud computing is the delivery of computing services (including servers, storage, databases, networking, software, and analytics) over the internet ('the cloud'). Instead of owning and maintaining physical servers and infrastructure, you can rent these resources from cloud providers like AWS, Microsoft Azure, or Google Cloud. This offers benefits like flexibility, cost-efficiency, scalability, and accessibility from anywhere with an internet connection.",
			"Can you explain what blockchain technology is?",
			"Blockchain is a distributed digital ledger technology that records transactions across many computers so that any involved record cannot be altered retroactively. It works by combining several key elements: decentralization (no single authority controls it), transparency (all transactions are visible), immutability (records can't be changed once added), and cryptographic security. While best known for powering cryptocurrencies like Bitcoin, blockchain has many other potential applications including supply chain tracking, digital identity verification, and smart contracts.",
			"What is the Internet of Things (IoT)?",
			"The Internet of Things (IoT) refers to the network of physical objects ('things') embedded with sensors, software, and other technologies to connect and exchange data with other devices and systems over the internet. Examples include smart home devices (thermostats, lights, security systems), wearable fitness trackers, connected appliances, and industrial sensors. IoT enables these objects to collect and share data, creating opportunities for more direct integration between the physical world and computer-based systems.",
			"What's the difference between augmented reality (AR) and virtual reality (VR)?",
			"Augmented Reality (AR) enhances your real-world environment by overlaying digital information on top of it. Examples include Pokémon GO or furniture placement apps. Virtual Reality (VR), on the other hand, replaces your environment with a completely virtual one, typically using headsets that block out the physical world. The key difference: AR adds to reality, while VR replaces it entirely. There's also Mixed Reality (MR), which blends elements of both by anchoring virtual objects to the real world that can interact with your environment.",
			"What is 5G technology?",
			"5G is the fifth generation of cellular network technology, designed to significantly increase the speed and responsiveness of wireless networks. Compared to 4G, 5G offers faster data speeds (up to 10 Gbps), lower latency (1-10 milliseconds), increased capacity for more connected devices, and more reliability. These improvements enable new applications like enhanced mobile broadband, mission-critical communications, and massive IoT deployments. 5G uses higher frequency radio waves than previous generations, which provide more bandwidth but travel shorter distances.",
			"What are some emerging technologies I should know about?",
			"Some important emerging technologies include: 1) Quantum Computing - using quantum mechanics to process information in new ways, 2) Edge Computing - processing data closer to where it's created rather than in centralized data centers, 3) Extended Reality (XR) - combining VR, AR and MR, 4) Autonomous Vehicles - self-driving cars and other transport, 5) Biotechnology advances like CRISPR gene editing, 6) Advanced AI systems with greater reasoning capabilities, and 7) Sustainable energy technologies. These fields are rapidly evolving and likely to significantly impact society in the coming years.",
			"How does cybersecurity work?",
			"Cybersecurity is the practice of protecting systems, networks, and programs from digital attacks. It works through multiple layers of protection including: 1) Network security (firewalls, intrusion detection), 2) Endpoint security (antivirus software, device management), 3) Application security (code reviews, authentication), 4) Data security (encryption, backups), and 5) Identity management (access controls, multi-factor authentication). Effective cybersecurity also requires ongoing monitoring, regular updates, security awareness training, and incident response planning to address evolving threats.",
			"What programming languages are most popular right now?",
			"The most popular programming languages currently include: 1) Python - widely used in data science, AI, web development, and automation, 2) JavaScript - essential for web development, 3) Java - common in enterprise applications and Android development, 4) C/C++ - used for system programming and performance-critical applications, 5) TypeScript - a typed superset of JavaScript gaining popularity, 6) Go - efficient for cloud and network services, 7) Rust - valued for memory safety and performance, and 8) SQL - still crucial for database management. The best language to learn depends on your specific goals and the field you're interested in.",
			"How is AI being used in healthcare?",
			"AI is transforming healthcare in numerous ways: 1) Diagnostic assistance - analyzing medical images to detect diseases like cancer, 2) Drug discovery - accelerating the identification of potential new medications, 3) Personalized medicine - tailoring treatments based on individual patient data, 4) Predictive analytics - forecasting patient deterioration or disease outbreaks, 5) Virtual nursing assistants - monitoring patients and answering questions, 6) Administrative efficiency - automating paperwork and scheduling, and 7) Robotic surgery - enhancing precision in surgical procedures. These applications aim to improve patient outcomes, reduce costs, and address healthcare workforce shortages.",
			"Thanks for all this information! I've learned a lot.",
			"You're welcome! I'm glad you found it helpful. Feel free to ask more questions about any technology topic!",
		},
	},
}

// DefaultChatrooms builds the example rooms used on first run. Content is
// fixed; timestamps are laid out one minute apart ending at now.
func DefaultChatrooms(now time.Time, newID func() string) []model.Chatroom {
	rooms := make([]model.Chatroom, 0, len(seedRooms))
	for _, sr := range seedRooms {
		room := model.Chatroom{
			ID:       newID(),
			Title:    sr.title,
			Messages: make([]model.Message, 0, len(sr.lines)),
		}
		start := now.Add(-time.Duration(sr.endOffset+len(sr.lines)-1) * seedInterval)
		for i, line := range sr.lines {
			sender := model.SenderAssistant
			if i%2 == 1 {
				sender = model.SenderUser
			}
			room.Append(model.Message{
				ID:        newID(),
				Content:   line,
				Sender:    sender,
				Timestamp: start.Add(time.Duration(i) * seedInterval).UnixMilli(),
			})
		}
		rooms = append(rooms, room)
	}
	return rooms
}
