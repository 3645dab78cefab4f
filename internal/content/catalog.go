package content

import (
	"fmt"

	"github.com/khanglvm/dev-advisor/internal/topic"
)

// Catalog returns the built-in templates. The first entry is the fallback
// used when no template matches a requested topic.
func Catalog() []Template {
	return []Template{
		{
			Topic: topic.SwiftUI,
			Titles: []string{
				"Master SwiftUI Animations",
				"Building Custom Views",
				"State Management Patterns",
				"Navigation Best Practices",
			},
			Bodies: []string{
				"Learn to create smooth, performant animations using SwiftUI's animation system. Master timing curves, spring animations, and transitions.",
				"Build reusable custom views with proper state management and composition. Follow SwiftUI best practices.",
				"Understand @State, @Binding, @Observable, and when to use each. Build scalable apps with proper data flow.",
			},
			Codes: []string{
				`struct AnimatedView: View {
    @State private var scale = 1.0

    var body: some View {
        Circle()
            .scaleEffect(scale)
            .onTapGesture {
                withAnimation(.spring) {
                    scale = 2.0
                }
            }
    }
}`,
				`@Observable
final class ViewModel {
    var items: [Item] = []

    func load() async {
        items = await fetch()
    }
}`,
			},
			Tags:             []string{"SwiftUI", "Animation", "Views"},
			Difficulty:       Intermediate,
			EstimatedMinutes: 30,
		},
		{
			Topic: topic.SwiftData,
			Titles: []string{
				"SwiftData Query Patterns",
				"CloudKit Sync with SwiftData",
				"Advanced Predicates",
				"Model Relationships",
			},
			Bodies: []string{
				"Master SwiftData queries with predicates, sorting, and filtering. Build efficient data layers.",
				"Sync your SwiftData models with CloudKit for multi-device support. Handle conflicts and migrations.",
				"Create complex relationships between models. Use cascading deletes and inverse relationships.",
			},
			Codes: []string{
				`@Model
final class Item {
    var name: String
    var createdAt: Date
    var tags: [Tag]

    init(name: String) {
        self.name = name
        self.createdAt = Date()
        self.tags = []
    }
}`,
				`@Query(
    filter: #Predicate<Item> { $0.createdAt > Date.now },
    sort: \.name
)
var items: [Item]`,
			},
			Tags:             []string{"SwiftData", "Persistence", "CloudKit"},
			Difficulty:       Advanced,
			EstimatedMinutes: 45,
		},
		{
			Topic: topic.Concurrency,
			Titles: []string{
				"Swift 6 Actor Patterns",
				"Async/Await Best Practices",
				"Task Groups and Cancellation",
				"MainActor Usage",
			},
			Bodies: []string{
				"Master Swift 6 actors for thread-safe code. Understand isolation and sendability.",
				"Write clean async code with proper error handling and cancellation support.",
				"Use task groups for parallel operations. Handle cancellation gracefully.",
			},
			Codes: []string{
				`actor DataService {
    private var cache: [String: Data] = [:]

    func fetch(_ key: String) async -> Data? {
        if let cached = cache[key] {
            return cached
        }
        let data = await download(key)
        cache[key] = data
        return data
    }
}`,
				`@MainActor
final class ViewModel: ObservableObject {
    @Published var items: [Item] = []

    func load() async {
        items = await service.fetch()
    }
}`,
			},
			Tags:             []string{"Concurrency", "Actors", "Swift6"},
			Difficulty:       Advanced,
			EstimatedMinutes: 60,
		},
		{
			Topic: topic.Testing,
			Titles: []string{
				"Test-Driven Development in Swift",
				"Testing Async Code",
				"Mock Services and Protocols",
				"UI Testing with XCTest",
			},
			Bodies: []string{
				"Write tests first, then implement. Build reliable, maintainable code with TDD.",
				"Test async/await code with proper expectations and timeouts.",
				"Create mock services for isolated unit tests. Use protocols for testability.",
			},
			Codes: []string{
				`final class ViewModelTests: XCTestCase {
    func testLoad() async throws {
        let vm = ViewModel(service: MockService())
        await vm.load()
        XCTAssertEqual(vm.items.count, 3)
    }
}`,
				`protocol DataService {
    func fetch() async -> [Item]
}

struct MockService: DataService {
    func fetch() async -> [Item] {
        [Item(name: "Test")]
    }
}`,
			},
			Tags:             []string{"Testing", "TDD", "XCTest"},
			Difficulty:       Intermediate,
			EstimatedMinutes: 40,
		},
		{
			Topic: topic.Performance,
			Titles: []string{
				"Profiling with Instruments",
				"Reducing View Body Recomputation",
				"Lazy Stacks and Large Lists",
			},
			Bodies: []string{
				"Find hot paths with the Time Profiler and fix the expensive calls first.",
				"Keep view bodies cheap. Split large views so that state changes invalidate less.",
				"Render long lists with lazy containers and stable identifiers.",
			},
			Codes: []string{
				`ScrollView {
    LazyVStack {
        ForEach(items) { item in
            Row(item: item)
        }
    }
}`,
				`struct Row: View, Equatable {
    let item: Item

    var body: some View {
        Text(item.name)
    }
}`,
			},
			Tags:             []string{"Performance", "Instruments", "Profiling"},
			Difficulty:       Advanced,
			EstimatedMinutes: 50,
		},
		{
			Topic: topic.Security,
			Titles: []string{
				"Storing Secrets in the Keychain",
				"App Transport Security",
				"CryptoKit Essentials",
			},
			Bodies: []string{
				"Never keep tokens in UserDefaults. Store credentials in the Keychain with the right accessibility class.",
				"Require TLS for every connection and avoid blanket ATS exceptions.",
				"Hash, sign, and encrypt data with CryptoKit primitives.",
			},
			Codes: []string{
				`let query: [String: Any] = [
    kSecClass as String: kSecClassGenericPassword,
    kSecAttrAccount as String: "token",
    kSecValueData as String: token
]
SecItemAdd(query as CFDictionary, nil)`,
				`let key = SymmetricKey(size: .bits256)
let sealed = try AES.GCM.seal(data, using: key)`,
			},
			Tags:             []string{"Security", "Keychain", "CryptoKit"},
			Difficulty:       Intermediate,
			EstimatedMinutes: 35,
		},
		{
			Topic: topic.Accessibility,
			Titles: []string{
				"VoiceOver Fundamentals",
				"Supporting Dynamic Type",
				"Accessible Custom Controls",
			},
			Bodies: []string{
				"Give every interactive element a label, a trait, and a hint where needed.",
				"Scale text with Dynamic Type and let layouts grow instead of truncating.",
				"Expose custom controls to assistive technologies with accessibility actions.",
			},
			Codes: []string{
				`Image(systemName: "heart.fill")
    .accessibilityLabel("Favorite")
    .accessibilityAddTraits(.isButton)`,
				`Text("Welcome")
    .font(.body)
    .dynamicTypeSize(...DynamicTypeSize.accessibility3)`,
			},
			Tags:             []string{"Accessibility", "VoiceOver", "DynamicType"},
			Difficulty:       Beginner,
			EstimatedMinutes: 25,
		},
		{
			Topic: topic.Animations,
			Titles: []string{
				"Spring Animations in Depth",
				"Matched Geometry Transitions",
				"Phase and Keyframe Animators",
			},
			Bodies: []string{
				"Tune response and damping to build springs that feel natural.",
				"Animate views between containers with matchedGeometryEffect.",
				"Sequence multi-step animations with phase and keyframe animators.",
			},
			Codes: []string{
				`withAnimation(.spring(response: 0.4, dampingFraction: 0.7)) {
    isExpanded.toggle()
}`,
				`Circle()
    .matchedGeometryEffect(id: "avatar", in: namespace)`,
			},
			Tags:             []string{"Animation", "SwiftUI", "Transitions"},
			Difficulty:       Intermediate,
			EstimatedMinutes: 30,
		},
	}
}

// ValidateCatalog checks that templates is non-empty, that every template has
// title, body and code variants, and that every topic is covered.
func ValidateCatalog(templates []Template) error {
	if len(templates) == 0 {
		return fmt.Errorf("%w: empty template catalog", ErrInvalidArgument)
	}

	covered := make(map[topic.Topic]bool)
	for i, tmpl := range templates {
		if !tmpl.Topic.Valid() {
			return fmt.Errorf("%w: template %d has invalid topic %v", ErrInvalidArgument, i, tmpl.Topic)
		}
		if len(tmpl.Titles) == 0 || len(tmpl.Bodies) == 0 || len(tmpl.Codes) == 0 {
			return fmt.Errorf("%w: template %d (%s) has an empty variant list", ErrInvalidArgument, i, tmpl.Topic)
		}
		covered[tmpl.Topic] = true
	}

	for _, t := range topic.All() {
		if !covered[t] {
			return fmt.Errorf("%w: no template for topic %s", ErrInvalidArgument, t)
		}
	}
	return nil
}
