package config

const DefaultSubstitutions = `
type-mappings:
  "()": Unit
  Void: Unit
  Bool: Boolean
  Int8: Byte
  Int16: Short
  Int32: Int
  Int64: Long
  UInt8: UByte
  UInt16: UShort
  UInt32: UInt
  UInt64: ULong
  Float32: Float
  Float64: Double
  Character: Char
  Substring: String
  String.Index: Int
  Substring.Index: Int
  Error: Exception
  AnyObject: Any
  Array<Element>.Index: Int
  ArrayClass: MutableList

builtin-protocols:
  - Equatable
  - Hashable
  - Comparable
  - Codable
  - Encodable
  - Decodable
  - CustomStringConvertible
  - CustomDebugStringConvertible
  - CaseIterable
  - RawRepresentable
  - ExpressibleByIntegerLiteral
  - ExpressibleByStringLiteral
  - ExpressibleByArrayLiteral
  - ExpressibleByDictionaryLiteral
  - Sequence
  - Collection

raw-value-types:
  - Int
  - String
  - Double
  - Float
  - Bool
  - Character

function-translations:
  - swift: "print(_:separator:terminator:)"
    kotlin: println
    parameters: ["_", "_", "_"]
  - swift: "print(_:)"
    kotlin: println
    parameters: ["_"]
  - swift: "max(_:_:)"
    kotlin: maxOf
    parameters: ["_", "_"]
  - swift: "min(_:_:)"
    kotlin: minOf
    parameters: ["_", "_"]
  - swift: "fatalError(_:file:line:)"
    kotlin: error
    parameters: ["_", "_", "_"]

literal-suffixes:
  uint: u
  float: f

identifiers: {}

operators: {}
`
